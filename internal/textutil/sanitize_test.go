package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"ProvA":          "prova",
		"  Artportalen ": "artportalen",
		"batch/0001":     "batch_0001",
		"__":             "unknown",
		"":               "unknown",
		"NORS-2024_v1":   "nors-2024_v1",
		"Lund Öland":     "lund_land",
		"a//b":           "a_b",
	}
	for in, want := range cases {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(` a/b:c*d?"e" `); got != "a-b-c-d-e" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeFileName("   "); got != "" {
		t.Fatalf("blank name = %q", got)
	}
	if got := SanitizeFileName("Lund Öland\t"); got != "Lund-Öland" {
		t.Fatalf("spaced name = %q", got)
	}
}
