package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const vnvcPage = `<html><body>
<h1>Bệnh truyền nhiễm</h1>
<h2>Các bệnh truyền nhiễm thường gặp</h2>
<p>1. Cảm cúm là bệnh do virus gây ra. Triệu chứng: sốt, ho. Bệnh lây qua đường hô hấp.</p>
<p>2. Sốt xuất huyết là bệnh do virus Dengue gây ra. Bệnh lây từ muỗi vằn. Phòng ngừa: ngủ màn, diệt muỗi.</p>
<h2>Làm sao để phòng ngừa bệnh truyền nhiễm</h2>
<p>Rửa tay thường xuyên và tiêm chủng đầy đủ.</p>
</body></html>`

func TestVNVCExtract(t *testing.T) {
	e := NewVNVCExtractor(zap.NewNop())

	records := e.Extract(vnvcPage)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Cảm cúm", first.Name)
	assert.Equal(t, "là bệnh do virus gây ra", first.Description)
	assert.Equal(t, "virus", first.Causes)
	assert.Equal(t, []string{"sốt", "ho"}, first.Symptoms)
	assert.True(t, first.IsContagious)

	second := records[1]
	assert.Equal(t, "Sốt xuất huyết", second.Name)
	assert.Equal(t, "virus Dengue", second.Causes)
	assert.Equal(t, []string{"ngủ màn", "diệt muỗi"}, second.Preventions)
	assert.True(t, second.IsContagious)
}

func TestVNVCExtractWithoutSectionFrame(t *testing.T) {
	e := NewVNVCExtractor(zap.NewNop())

	// Ohne den umschließenden Rahmen greift der Fallback ab der ersten
	// nummerierten Überschrift.
	records := e.Extract("Giới thiệu chung\n1. Thủy đậu là bệnh do virus varicella gây ra. Bệnh lây qua tiếp xúc.")
	require.Len(t, records, 1)
	assert.Equal(t, "Thủy đậu", records[0].Name)
	assert.Equal(t, "virus varicella", records[0].Causes)
	assert.True(t, records[0].IsContagious)
}

func TestVNVCExtractEmptyContent(t *testing.T) {
	e := NewVNVCExtractor(zap.NewNop())
	assert.Empty(t, e.Extract("Trang không có danh sách bệnh nào."))
}
