package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDispatcherKnownDomains(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	tests := []struct {
		url  string
		want string
	}{
		{"https://vnvc.vn/benh-truyen-nhiem/", "vnvc"},
		{"https://www.vinmec.com/vi/benh/benh-truyen-nhiem-1/", "vinmec"},
		{"https://nhathuoclongchau.com.vn/bai-viet/benh-cum.html", "longchau"},
		{"https://medda.vn/benh-thuong-gap/", "medda"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.ForURL(tt.url, "").Name(), tt.url)
	}
}

func TestDispatcherContentSniffing(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	// Long-Châu-Layout anhand des Artikel-Containers
	longchau := `<html><body><div class="article-detail"><h2>Bệnh cúm</h2></div></body></html>`
	assert.Equal(t, "longchau", d.ForURL("https://example.com/a", longchau).Name())

	// Nummerierte Blöcke im Fließtext
	medda := "Danh sách bệnh\n1. Bệnh sởi\nBệnh do virus sởi gây ra."
	assert.Equal(t, "medda", d.ForURL("https://example.com/b", medda).Name())

	// VNVC-Listenüberschrift
	vnvc := "Các bệnh truyền nhiễm thường gặp\n1. Cảm cúm là bệnh nhẹ."
	assert.Equal(t, "vnvc", d.ForURL("https://example.com/c", vnvc).Name())

	// Unbekanntes Layout fällt auf den generischen Extractor zurück
	assert.Equal(t, "generic", d.ForURL("https://example.com/d", "<p>Không có cấu trúc</p>").Name())
}

func TestFlatten(t *testing.T) {
	html := `<html><head><script>var x = 1;</script></head><body>
<h1>Tiêu đề</h1>
<p>Đoạn một.</p>
<p>  Đoạn   hai.  </p>
</body></html>`

	flat := Flatten(html)
	assert.NotContains(t, flat, "var x")
	assert.Contains(t, flat, "Tiêu đề\nĐoạn một.")

	// Reiner Text läuft unverändert durch dieselbe Aufbereitung
	assert.Equal(t, "eins\nzwei", Flatten("eins\n\n  zwei  "))
}
