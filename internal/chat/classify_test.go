package chat

import "testing"

func TestDetectType_Media(t *testing.T) {
	for _, body := range []string{
		"sticker omitted",
		"image omitted",
		"audio omitted",
		"video omitted",
		"Contact card omitted",
		"look at this image omitted thing",
	} {
		if got := DetectType(body); got != TypeMedia {
			t.Errorf("DetectType(%q) = %q, want media", body, got)
		}
	}
}

func TestDetectType_System(t *testing.T) {
	for _, body := range []string{
		"Messages and calls are end-to-end encrypted. No one outside of this chat can read them.",
		"Dana created this group",
		"Dana added Erin",
		"Erin left",
		"Dana removed Frank",
		"Dana changed the subject to \"weekend\"",
		"Dana changed this group's icon",
		"You deleted this message",
	} {
		if got := DetectType(body); got != TypeSystem {
			t.Errorf("DetectType(%q) = %q, want system", body, got)
		}
	}
}

func TestDetectType_Text(t *testing.T) {
	for _, body := range []string{
		"hello there",
		"see you at 9",
		"IMAGE OMITTED", // markers are case-sensitive
		"",
	} {
		if got := DetectType(body); got != TypeText {
			t.Errorf("DetectType(%q) = %q, want text", body, got)
		}
	}
}

func TestDetectType_MediaBeatsSystem(t *testing.T) {
	// Contains both a media and a system marker; media wins.
	body := "Dana added a sticker omitted"
	if got := DetectType(body); got != TypeMedia {
		t.Errorf("DetectType(%q) = %q, want media", body, got)
	}
}

func TestDetectType_SubstringFalsePositivePreserved(t *testing.T) {
	// "left" and "added" match inside ordinary prose. Known limitation
	// of the marker lists, deliberately not corrected.
	for _, body := range []string{
		"I left my phone at home",
		"we added salt to the soup",
	} {
		if got := DetectType(body); got != TypeSystem {
			t.Errorf("DetectType(%q) = %q, want system (documented false positive)", body, got)
		}
	}
}
