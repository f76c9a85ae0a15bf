package shipping

import "testing"

func TestResolveCost_ChihuahuaVariations(t *testing.T) {
	cases := []string{
		"Chihuahua",
		"CHIHUAHUA",
		"  chihuahua  ",
		"Chih.",
		"CHIH",
		"Chihuahua, México",
		"Chihuahua, Mexico",
		"Estado de Chihuahua",
	}
	for _, state := range cases {
		if got := ResolveCost(state); got != ChihuahuaCost {
			t.Errorf("ResolveCost(%q) = %v, want %v", state, got, ChihuahuaCost)
		}
	}
}

func TestResolveCost_OtherStates(t *testing.T) {
	cases := []string{
		"Jalisco",
		"Nuevo León",
		"Ciudad de México",
		"",
		"   ",
	}
	for _, state := range cases {
		if got := ResolveCost(state); got != OtherStatesCost {
			t.Errorf("ResolveCost(%q) = %v, want %v", state, got, OtherStatesCost)
		}
	}
}

func TestResolveCost_SameInputSameOutput(t *testing.T) {
	first := ResolveCost("chihuahua mexico")
	for i := 0; i < 10; i++ {
		if got := ResolveCost("chihuahua mexico"); got != first {
			t.Fatalf("ResolveCost not deterministic: %v then %v", first, got)
		}
	}
}
