package blockgraph

import "github.com/goliatone/go-blockgraph/internal/runtimeconfig"

var (
	ErrDateWindowInvalid      = runtimeconfig.ErrDateWindowInvalid
	ErrDateLayoutRequired     = runtimeconfig.ErrDateLayoutRequired
	ErrTimezoneInvalid        = runtimeconfig.ErrTimezoneInvalid
	ErrSlugPrefixInvalid      = runtimeconfig.ErrSlugPrefixInvalid
	ErrContainerTypesRequired = runtimeconfig.ErrContainerTypesRequired
	ErrMaxDepthInvalid        = runtimeconfig.ErrMaxDepthInvalid
	ErrWorkersInvalid         = runtimeconfig.ErrWorkersInvalid
	ErrRenderExtensionUnknown = runtimeconfig.ErrRenderExtensionUnknown
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigDecode           = runtimeconfig.ErrConfigDecode
)

type (
	Config          = runtimeconfig.Config
	RichTextConfig  = runtimeconfig.RichTextConfig
	SlugConfig      = runtimeconfig.SlugConfig
	BuilderConfig   = runtimeconfig.BuilderConfig
	SnapshotConfig  = runtimeconfig.SnapshotConfig
	RenderConfig    = runtimeconfig.RenderConfig
	DocumentsConfig = runtimeconfig.DocumentsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
