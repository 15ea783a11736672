package version

// Version is the build version of the backtest binary, set with
// -ldflags "-X github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/version.Version=1.2.3".
// "main" marks a development build.
var Version = "main"

// SchemaVersion is stamped into every persisted result. Bump the minor
// version when a field is added and the major version when one changes meaning.
const SchemaVersion = "1.0.0"

func GetVersion() string {
	return Version
}
