package util

import (
	"crypto/tls"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spaceandtimelabs/ignite-go/client"
	"github.com/spaceandtimelabs/ignite-go/transport"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds common connection flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "addr"
	cmd.PersistentFlags().String(key, "localhost:10800", WrapString("The address of the cluster node (host:port)"))

	key = "username"
	cmd.PersistentFlags().String(key, "", WrapString("Username for the handshake (empty for anonymous access)"))

	key = "password"
	cmd.PersistentFlags().String(key, "", WrapString("Password for the handshake"))

	key = "tls"
	cmd.PersistentFlags().Bool(key, false, WrapString("Connect via TLS"))

	key = "tls-insecure"
	cmd.PersistentFlags().Bool(key, false, WrapString("Skip server certificate verification (only with --tls)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("Per read/write timeout of the connection in seconds (0 disables)"))

	key = "write-buffer"
	cmd.PersistentFlags().Int(key, 1, WrapString("The size of the write buffer for the connection (in KB)"))

	key = "read-buffer"
	cmd.PersistentFlags().Int(key, 1, WrapString("The size of the read buffer for the connection (in KB)"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY for the connection"))

	key = "tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval for the connection (in seconds)"))

	key = "tcp-linger"
	cmd.PersistentFlags().Int(key, 0, WrapString("The linger time for the connection (in seconds)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warning", WrapString("Log level (debug, info, warning, error)"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ignite")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *client.ClientConfig {
	conf := &client.ClientConfig{
		Addr:            viper.GetString("addr"),
		Username:        viper.GetString("username"),
		Password:        viper.GetString("password"),
		ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
		WriteBufferSize: viper.GetInt("write-buffer") * 1024,
		LogLevel:        viper.GetString("log-level"),
		Transport: transport.Config{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
			ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
			WriteBufferSize: viper.GetInt("write-buffer") * 1024,
			Timeout:         time.Duration(viper.GetInt("timeout")) * time.Second,
		},
	}

	if viper.GetBool("tls") {
		conf.TLS = &tls.Config{
			InsecureSkipVerify: viper.GetBool("tls-insecure"),
		}
	}

	return conf
}

// NewClient connects to the configured node
func NewClient() (*client.Client, error) {
	return client.Connect(GetClientConfig())
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
