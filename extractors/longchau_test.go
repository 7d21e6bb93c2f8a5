package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const longchauPage = `<html><body>
<div class="article-detail">
<h2>Bệnh cảm cúm ở người lớn</h2>
<p>Cảm cúm là bệnh hô hấp cấp tính và lây qua giọt bắn.</p>
<p>Nguyên nhân gây bệnh: virus cúm mùa. Triệu chứng thường gặp: sốt, ho, đau họng. Phòng ngừa hiệu quả: tiêm vắc-xin hằng năm.</p>
<h2>Liên hệ tư vấn</h2>
<p>Gọi tổng đài để được hỗ trợ.</p>
</div>
</body></html>`

func TestLongChauExtract(t *testing.T) {
	e := NewLongChauExtractor(zap.NewNop())

	records := e.Extract(longchauPage)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Bệnh cảm cúm ở người lớn", rec.Name)
	assert.Contains(t, rec.Description, "Cảm cúm là bệnh hô hấp cấp tính")
	assert.Equal(t, "virus cúm mùa", rec.Causes)
	assert.Equal(t, []string{"sốt", "ho", "đau họng"}, rec.Symptoms)
	assert.Equal(t, []string{"tiêm vắc-xin hằng năm"}, rec.Preventions)
	assert.True(t, rec.IsContagious)
}

func TestLongChauExtractFallbackContainer(t *testing.T) {
	e := NewLongChauExtractor(zap.NewNop())

	page := `<div class="post-content"><h3>Bệnh sỏi thận</h3><p>Sỏi thận hình thành do lắng đọng khoáng chất.</p></div>`
	records := e.Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, "Bệnh sỏi thận", records[0].Name)
	assert.False(t, records[0].IsContagious)
}

func TestLongChauExtractNoContainer(t *testing.T) {
	e := NewLongChauExtractor(zap.NewNop())
	assert.Empty(t, e.Extract(`<div class="sidebar"><h2>Bệnh cúm</h2></div>`))
}
