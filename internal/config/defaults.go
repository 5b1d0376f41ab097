package config

const (
	// TransportSocket dials the controller over a Unix domain socket.
	TransportSocket = "socket"
	// TransportWebsocket dials the controller over a websocket URL.
	TransportWebsocket = "websocket"
)

const (
	defaultConfigPath          = "~/.config/queuepanel/config.toml"
	defaultLogDir              = "~/.local/share/queuepanel/logs"
	defaultSocketPath          = "~/.local/share/queuepanel/controller.sock"
	defaultBridgeURL           = "ws://127.0.0.1:7490/panel"
	defaultTransport           = TransportSocket
	defaultWriteTimeoutSeconds = 5
	defaultBufferSize          = 64
	defaultPriority            = 2
	defaultMaxConcurrency      = 1
	defaultContinueOnError     = true
	defaultChatWaitTimeMS      = 60000
	defaultRecentLimit         = 10
	defaultDragDebounceMS      = 100
	defaultNoticeSeconds       = 3
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Bridge: Bridge{
			Transport:           defaultTransport,
			SocketPath:          defaultSocketPath,
			URL:                 defaultBridgeURL,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
			BufferSize:          defaultBufferSize,
		},
		Ingest: Ingest{
			DefaultPriority: defaultPriority,
		},
		Processing: Processing{
			MaxConcurrency:  defaultMaxConcurrency,
			ContinueOnError: defaultContinueOnError,
			ChatWaitTimeMS:  defaultChatWaitTimeMS,
		},
		Panel: Panel{
			RecentLimit:    defaultRecentLimit,
			DragDebounceMS: defaultDragDebounceMS,
			NoticeSeconds:  defaultNoticeSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
