package config

import "strings"

func (c *Config) normalize() error {
	if dir := ResolveCanonicalDir(c.Paths.CanonicalDir); dir != c.Paths.CanonicalDir {
		c.Paths.CanonicalDir = dir
	}

	for _, field := range []*string{
		&c.Paths.CanonicalDir,
		&c.Paths.StagingDir,
		&c.Paths.LogDir,
		&c.RunLog.Path,
	} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Update.Oiiotool = strings.TrimSpace(c.Update.Oiiotool)

	return nil
}
