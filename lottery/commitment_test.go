package lottery

import "testing"

func TestBuildCommitment(t *testing.T) {
	got := BuildCommitment([]uint16{45, 12, 12}, 7)
	want := "828c4a36ec63ec349f84836b56cf5299ea1a74ac000fb6997d3e9573a4ec653d"
	if got != want {
		t.Errorf("commitment = %s, want %s", got, want)
	}
	if !ValidCommitment(got) {
		t.Errorf("%s is not a valid commitment", got)
	}
}

func TestBuildCommitmentDeterministic(t *testing.T) {
	a := BuildCommitment([]uint16{1, 2, 2}, 500)
	b := BuildCommitment([]uint16{2, 1, 2}, 500)
	if a != b {
		t.Errorf("order changed the commitment: %s != %s", a, b)
	}
	if a == BuildCommitment([]uint16{1, 2, 2}, 501) {
		t.Error("seed does not change the commitment")
	}
	if a == BuildCommitment([]uint16{1, 2}, 500) {
		t.Error("multiplier does not change the commitment")
	}
}

func TestValidCommitment(t *testing.T) {
	tests := map[string]bool{
		"":   false,
		"ab": false,
		"828c4a36ec63ec349f84836b56cf5299ea1a74ac000fb6997d3e9573a4ec653d": true,
		"828C4A36EC63EC349F84836B56CF5299EA1A74AC000FB6997D3E9573A4EC653D": false,
		"zz8c4a36ec63ec349f84836b56cf5299ea1a74ac000fb6997d3e9573a4ec653d": false,
	}
	for hash, want := range tests {
		if got := ValidCommitment(hash); got != want {
			t.Errorf("ValidCommitment(%q) = %v", hash, got)
		}
	}
}

func TestRevealPayload(t *testing.T) {
	p := NewRevealPayload([]uint16{9, 3}, 42)
	if p.RandomSeed != "42" || p.LuckyNumbers[0] != 3 || p.LuckyNumbers[1] != 9 {
		t.Errorf("payload = %+v", p)
	}
}
