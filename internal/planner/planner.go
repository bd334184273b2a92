package planner

import (
	"errors"
	"fmt"

	"github.com/backmassage/mp4tomp3/internal/config"
	"github.com/backmassage/mp4tomp3/internal/probe"
)

// Sentinel errors returned by Select. Callers classify with errors.Is.
var (
	ErrNoAudio        = errors.New("no audio stream")
	ErrInvalidQuality = errors.New("invalid VBR quality")
	ErrInvalidBitrate = errors.New("invalid bitrate")
	ErrInvalidMode    = errors.New("invalid mode")
)

// Select chooses the encoding strategy for one file.
//
//   - No audio → ErrNoAudio. The batch driver skips such files before
//     calling Select.
//   - cbr → CBR at bitrate; vbr → VBR at vbrQuality.
//   - auto → Copy for MP3 sources, VBR for the AAC family, CBR otherwise
//     (including an unknown codec).
//
// Parameters are validated only for the plan actually chosen: an out-of-range
// quality does not matter when the result is CBR or Copy. Select performs no
// I/O and always returns the same plan for the same inputs.
func Select(info probe.AudioStreamInfo, mode config.Mode, bitrate string, vbrQuality int) (Plan, error) {
	if !info.Present {
		return Plan{}, ErrNoAudio
	}

	var plan Plan
	switch mode {
	case config.ModeCBR:
		plan = CBR(bitrate)
	case config.ModeVBR:
		plan = VBR(vbrQuality)
	case config.ModeAuto:
		plan = autoPlan(info.Codec, bitrate, vbrQuality)
	default:
		return Plan{}, fmt.Errorf("%w %q", ErrInvalidMode, mode)
	}

	switch plan.Kind {
	case KindVBR:
		if err := config.ValidateVBRQuality(plan.Quality); err != nil {
			return Plan{}, fmt.Errorf("%w: %v", ErrInvalidQuality, err)
		}
	case KindCBR:
		normalized, err := config.NormalizeBitrate(plan.Bitrate)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: %v", ErrInvalidBitrate, err)
		}
		plan.Bitrate = normalized
	}
	return plan, nil
}

func autoPlan(codec, bitrate string, vbrQuality int) Plan {
	switch {
	case isMP3(codec):
		return Copy()
	case isAACFamily(codec):
		return VBR(vbrQuality)
	default:
		return CBR(bitrate)
	}
}
