package display

import (
	"io"

	"github.com/backmassage/mp4tomp3/internal/term"
)

const banner = `           _  _   _          __  __ ____ _____
 _ __ ___ | || | | |_ ___   |  \/  |  _ \___ /
| '_ ` + "`" + ` _ \| || |_| __/ _ \  | |\/| | |_) ||_ \
| | | | | |__   _| || (_) | | |  | |  __/___) |
|_| |_| |_|  |_|  \__\___/  |_|  |_|_|  |____/
`

// PrintBanner writes the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	_, _ = io.WriteString(w, term.Magenta.Sprint(banner))
	_, _ = io.WriteString(w, "\n")
}
