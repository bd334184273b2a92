package display

import (
	"fmt"
	"time"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBitrateLabel returns a short label for an audio bitrate in bits/sec
// (e.g. "128 kbps"), or "unknown" when bps is not positive.
func FormatBitrateLabel(bps int64) string {
	if bps <= 0 {
		return "unknown"
	}
	kbps := bps / 1000
	if kbps < 1000 {
		return fmt.Sprintf("%d kbps", kbps)
	}
	return fmt.Sprintf("%.1f Mbps", float64(kbps)/1000)
}

// FormatSampleRate renders Hz as kHz ("48 kHz", "22.05 kHz"), or "-" when 0.
func FormatSampleRate(hz int) string {
	if hz <= 0 {
		return "-"
	}
	if hz%1000 == 0 {
		return fmt.Sprintf("%d kHz", hz/1000)
	}
	return fmt.Sprintf("%g kHz", float64(hz)/1000)
}

// FormatElapsed renders a duration rounded to whole seconds ("3s", "1m05s").
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%02dm%02ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// Ratio returns out as a whole percentage of in, or 0 when in is not positive.
func Ratio(out, in int64) int64 {
	if in <= 0 {
		return 0
	}
	return out * 100 / in
}
