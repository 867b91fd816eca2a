package log

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Config is the logging section of the node configuration.
type Config struct {
	Level string `toml:",omitempty"`
	JSON  bool   `toml:",omitempty"`
	Color bool   `toml:",omitempty"`
}

// DefaultConfig logs at info level to a console writer.
var DefaultConfig = Config{
	Level: "info",
}

// Configure installs a root logger built from cfg writing to w. Color is only
// honoured when w is a terminal.
func Configure(cfg Config, w io.Writer) error {
	lvl, err := LvlFromString(cfg.Level)
	if err != nil {
		return err
	}
	color := cfg.Color
	if f, ok := w.(*os.File); ok && color {
		color = isatty.IsTerminal(f.Fd())
		if color {
			w = colorable.NewColorable(f)
		}
	}
	SetDefault(NewLogger(w, lvl, cfg.JSON, color))
	return nil
}
