package dsp

import "testing"

func TestCodecEncodeDecodeRoundTrip(t *testing.T) {
	c := NewCodec(ModeFT8)
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer c.Close()

	c.SetSampleRate(12000)
	c.SetCarrierFrequency(1000.0)
	c.SetSearchBand(700, 1300)

	audio, err := c.EncodeMessage("CQ K1ABC FN42", ModeFT8)
	if err != nil {
		t.Fatalf("EncodeMessage failed: %v", err)
	}
	if len(audio) == 0 {
		t.Fatalf("expected non-empty encoded audio")
	}

	var got []*DecodeResult
	n, err := c.DecodeBuffer(audio, func(r *DecodeResult) {
		got = append(got, r)
	})
	if err != nil {
		t.Fatalf("DecodeBuffer failed: %v", err)
	}
	if n != len(got) {
		t.Fatalf("DecodeBuffer returned count %d but callback fired %d times", n, len(got))
	}

	found := false
	for _, r := range got {
		if r.Message == "CQ K1ABC FN42" {
			found = true
			if r.Mode != "FT8" {
				t.Errorf("Mode = %q, want FT8", r.Mode)
			}
		}
	}
	if !found {
		t.Fatalf("expected to decode back the original message, got %+v", got)
	}
}

func TestCodecMethodsRequireInitialize(t *testing.T) {
	c := NewCodec(ModeFT8)
	if _, err := c.EncodeMessage("CQ K1ABC FN42", ModeFT8); err != ErrNotInitialized {
		t.Errorf("expected ErrNotInitialized before Initialize, got %v", err)
	}
	if _, err := c.DecodeBuffer([]int16{1, 2, 3}, nil); err != ErrNotInitialized {
		t.Errorf("expected ErrNotInitialized before Initialize, got %v", err)
	}
}

func TestCodecEncodeMessageRejectsEmpty(t *testing.T) {
	c := NewCodec(ModeFT8)
	c.Initialize()
	if _, err := c.EncodeMessage("", ModeFT8); err != ErrEmptyMessage {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestModeString(t *testing.T) {
	if ModeFT8.String() != "FT8" {
		t.Errorf("ModeFT8.String() = %q, want FT8", ModeFT8.String())
	}
	if ModeFT4.String() != "FT4" {
		t.Errorf("ModeFT4.String() = %q, want FT4", ModeFT4.String())
	}
}
