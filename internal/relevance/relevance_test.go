package relevance_test

import (
	"testing"

	"istanbul-news/internal/relevance"
)

func TestIsIstanbulRelated_Title(t *testing.T) {
	tests := []struct {
		name  string
		title string
		link  string
		want  bool
	}{
		{"plain istanbul", "istanbul trafik yoğunluğu", "", true},
		{"upper ascii", "ISTANBUL haberleri", "", true},
		{"dotted capital I", "İSTANBUL'da olay", "", true},
		{"dotted lowercase word", "İstanbul Boğazı'nda gemi trafiği", "", true},
		{"district in title", "Kadıköy'de yeni metro hattı açıldı", "", true},
		{"district with diacritics", "Beşiktaş'ta yol çalışması", "", true},
		{"district uppercase", "ÜSKÜDAR sahilinde etkinlik", "", true},
		{"unrelated city", "Ankara haberi", "", false},
		{"unrelated everything", "Ekonomide son gelişmeler", "https://example.com/ekonomi", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevance.IsIstanbulRelated(tt.title, tt.link); got != tt.want {
				t.Errorf("IsIstanbulRelated(%q, %q) = %v, want %v", tt.title, tt.link, got, tt.want)
			}
		})
	}
}

func TestIsIstanbulRelated_Link(t *testing.T) {
	// リンク内のistanbulも一致対象
	if !relevance.IsIstanbulRelated("Son dakika", "https://ornek.com/istanbul/haber-123") {
		t.Error("IsIstanbulRelated() = false, want true for istanbul in link")
	}
	if relevance.IsIstanbulRelated("Son dakika", "https://ornek.com/ankara/haber-123") {
		t.Error("IsIstanbulRelated() = true, want false for non-istanbul link")
	}
}

func TestIsIstanbulRelated_DistrictOnlyMatchesTitle(t *testing.T) {
	// district names are only matched against the title, not the link
	if relevance.IsIstanbulRelated("Genel haber", "https://ornek.com/kadikoy-pazari") {
		t.Error("IsIstanbulRelated() = true, want false for district name in link only")
	}
}

func TestDistricts_CopyIsIndependent(t *testing.T) {
	d := relevance.Districts()
	if len(d) != 38 {
		t.Fatalf("Districts() length = %d, want 38", len(d))
	}
	d[0] = "mutated"
	if relevance.Districts()[0] == "mutated" {
		t.Error("Districts() returned a shared slice; want a copy")
	}
}
