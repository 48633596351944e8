package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEncode()
	c.normalizeJobs()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.AssetDir, err = expandPath(c.Paths.AssetDir); err != nil {
		return fmt.Errorf("paths.asset_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeEncode() {
	if strings.TrimSpace(c.Encode.FFmpegBinary) == "" {
		c.Encode.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Encode.FFprobeBinary) == "" {
		c.Encode.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Encode.VideoCodec) == "" {
		c.Encode.VideoCodec = defaultVideoCodec
	}
	if strings.TrimSpace(c.Encode.VideoBitrate) == "" {
		c.Encode.VideoBitrate = defaultVideoBitrate
	}
}

func (c *Config) normalizeJobs() {
	if c.Jobs.CleanupDelaySeconds <= 0 {
		c.Jobs.CleanupDelaySeconds = defaultCleanupDelaySeconds
	}
	if c.Jobs.StaleWorkspaceHours <= 0 {
		c.Jobs.StaleWorkspaceHours = defaultStaleWorkspaceHours
	}
	if c.Jobs.MinFreeSpaceMiB < 0 {
		c.Jobs.MinFreeSpaceMiB = 0
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
