package config

const (
	defaultAssetDir            = "~/.local/share/arda/assets"
	defaultStagingDir          = "~/.local/share/arda/staging"
	defaultDataDir             = "~/.local/share/arda/data"
	defaultLogDir              = "~/.local/share/arda/logs"
	defaultAPIBind             = "127.0.0.1:8742"
	defaultTemplateVideo       = "template.mp4"
	defaultOverlayImage        = "frame.png"
	defaultFontSize            = 100
	defaultVideoCodec          = "libx264"
	defaultVideoBitrate        = "2000k"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultCleanupDelaySeconds = 60
	defaultStaleWorkspaceHours = 24
	defaultMinFreeSpaceMiB     = 256
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// defaultFontPaths is the prioritized platform font search list the overlay
// renderer walks before falling back to the built-in bitmap font.
var defaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"C:/Windows/Fonts/Arial.ttf",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetDir:   defaultAssetDir,
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Assets: Assets{
			TemplateVideo: defaultTemplateVideo,
			OverlayImage:  defaultOverlayImage,
		},
		Render: Render{
			FontSize:  defaultFontSize,
			FontPaths: append([]string(nil), defaultFontPaths...),
		},
		Encode: Encode{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoCodec:    defaultVideoCodec,
			VideoBitrate:  defaultVideoBitrate,
		},
		Jobs: Jobs{
			CleanupDelaySeconds: defaultCleanupDelaySeconds,
			StaleWorkspaceHours: defaultStaleWorkspaceHours,
			MinFreeSpaceMiB:     defaultMinFreeSpaceMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
