package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"rats/internal/analysis"
	"rats/internal/services/oiio"
)

// pairStatsProvider fabricates deterministic diff statistics from the
// candidate indices encoded in the image paths.
type pairStatsProvider struct {
	mu       sync.Mutex
	calls    int
	failPair [2]int
}

func (p *pairStatsProvider) Stats(ctx context.Context, image string) (oiio.Stats, error) {
	return oiio.Stats{}, errors.New("not used")
}

func (p *pairStatsProvider) DiffStats(ctx context.Context, imageA, imageB string) (oiio.Stats, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	i := candidateIndex(imageA)
	j := candidateIndex(imageB)
	if [2]int{i, j} == p.failPair {
		return oiio.Stats{}, fmt.Errorf("unreadable image %s", imageA)
	}

	value := float64(i+j) * 0.001
	return oiio.Stats{
		Avg:    []float64{value},
		StdDev: []float64{value / 10},
		Max:    []float64{value * 5},
		Min:    []float64{0},
	}, nil
}

func candidateIndex(path string) int {
	index, err := strconv.Atoi(filepath.Base(filepath.Dir(path)))
	if err != nil {
		panic(err)
	}
	return index
}

func TestAnalyzeImagePairCount(t *testing.T) {
	provider := &pairStatsProvider{failPair: [2]int{-1, -1}}
	analyzer, err := analysis.NewAnalyzer(provider)
	if err != nil {
		t.Fatal(err)
	}

	const n = 6
	set, err := analyzer.AnalyzeImage(context.Background(), "/scratch", "beauty.exr", n)
	if err != nil {
		t.Fatalf("AnalyzeImage returned error: %v", err)
	}

	want := n * (n - 1) / 2
	if set.Len() != want {
		t.Fatalf("comparisons = %d, want %d", set.Len(), want)
	}
	if provider.calls != want {
		t.Fatalf("provider calls = %d, want %d (one per unordered pair)", provider.calls, want)
	}

	// Lookup by either order resolves to the same entry.
	ab, ok := set.Lookup(1, 4)
	if !ok {
		t.Fatal("lookup (1,4) failed")
	}
	ba, ok := set.Lookup(4, 1)
	if !ok {
		t.Fatal("lookup (4,1) failed")
	}
	if ab.RMSError != ba.RMSError {
		t.Fatal("asymmetric lookup results")
	}
}

func TestAnalyzeImageConcurrentMatchesSequential(t *testing.T) {
	const n = 5
	run := func(concurrent bool) *analysis.ComparisonSet {
		provider := &pairStatsProvider{failPair: [2]int{-1, -1}}
		analyzer, err := analysis.NewAnalyzer(provider, analysis.WithConcurrency(concurrent, 3))
		if err != nil {
			t.Fatal(err)
		}
		set, err := analyzer.AnalyzeImage(context.Background(), "/scratch", "beauty.exr", n)
		if err != nil {
			t.Fatal(err)
		}
		return set
	}

	sequential := run(false)
	concurrent := run(true)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, _ := sequential.Lookup(i, j)
			b, _ := concurrent.Lookup(i, j)
			if a.RMSError != b.RMSError || a.MeanError != b.MeanError || a.MaxError != b.MaxError {
				t.Fatalf("pair (%d,%d) differs between modes", i, j)
			}
		}
	}
}

func TestAnalyzeImagePropagatesAdapterFailure(t *testing.T) {
	provider := &pairStatsProvider{failPair: [2]int{1, 3}}
	analyzer, err := analysis.NewAnalyzer(provider)
	if err != nil {
		t.Fatal(err)
	}

	_, err = analyzer.AnalyzeImage(context.Background(), "/scratch", "beauty.exr", 5)
	if err == nil {
		t.Fatal("expected adapter failure to abort analysis")
	}
	if !strings.Contains(err.Error(), "candidates 1 and 3") {
		t.Fatalf("error should name the failing pair: %v", err)
	}
	if !strings.Contains(err.Error(), "unreadable image") {
		t.Fatalf("error should carry the adapter detail: %v", err)
	}
}

func TestNewAnalyzerRequiresProvider(t *testing.T) {
	if _, err := analysis.NewAnalyzer(nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}
