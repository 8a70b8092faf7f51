package speech

import (
	"context"
	"fmt"

	"github.com/roasbeef/hookvoice/internal/elevenlabs"
	"github.com/roasbeef/hookvoice/internal/playback"
)

// DirectSpeaker synthesizes speech in-process and plays it. This is what the
// standalone helper runs; hooks reach it through an Invoker.
type DirectSpeaker struct {
	synth  elevenlabs.Synthesizer
	player playback.Player
	opts   elevenlabs.SynthesizeOpts
}

// NewDirectSpeaker creates a DirectSpeaker.
func NewDirectSpeaker(synth elevenlabs.Synthesizer, player playback.Player,
	opts elevenlabs.SynthesizeOpts) *DirectSpeaker {

	return &DirectSpeaker{
		synth:  synth,
		player: player,
		opts:   opts,
	}
}

// Speak flattens text to plain words, synthesizes it and plays the audio.
func (d *DirectSpeaker) Speak(ctx context.Context, text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Sprintf("panic: %v", r))
		}
	}()

	spoken := PlainText(text)
	if spoken == "" {
		return Disabled("nothing to say")
	}

	audio, err := d.synth.Synthesize(ctx, spoken, d.opts)
	if err != nil {
		log.WarnS(ctx, "Speech synthesis failed", err)
		return Failed(fmt.Sprintf("synthesize: %v", err))
	}

	if err := d.player.Play(ctx, audio); err != nil {
		log.WarnS(ctx, "Audio playback failed", err)
		return Failed(fmt.Sprintf("play: %v", err))
	}

	log.InfoS(ctx, "Spoke message", "text", spoken)

	return Spoken()
}

// Ensure DirectSpeaker implements Speaker at compile time.
var _ Speaker = (*DirectSpeaker)(nil)
