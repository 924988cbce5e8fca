package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxImages int
		wantText  string
		wantIds   []string
	}{
		{
			name:     "no markers",
			text:     "สวัสดีค่ะ สนใจสินค้าตัวไหนคะ",
			wantText: "สวัสดีค่ะ สนใจสินค้าตัวไหนคะ",
			wantIds:  []string{},
		},
		{
			name:     "single marker at end",
			text:     "สินค้าครบ 3 แบบ <<IMG:IMG_PROD_001>>",
			wantText: "สินค้าครบ 3 แบบ",
			wantIds:  []string{"IMG_PROD_001"},
		},
		{
			name:     "duplicates removed preserving first occurrence",
			text:     "Price is 100 baht. <<IMG:IMG_PROD_001>><<IMG:IMG_PROD_001>> <<IMG:IMG_PROD_002>>",
			wantText: "Price is 100 baht.",
			wantIds:  []string{"IMG_PROD_001", "IMG_PROD_002"},
		},
		{
			name:     "order preserved across namespaces",
			text:     "รีวิวค่ะ <<IMG:IMG_REVIEW_003>> และสินค้า <<IMG:IMG_PROD_002>>",
			wantText: "รีวิวค่ะ และสินค้า",
			wantIds:  []string{"IMG_REVIEW_003", "IMG_PROD_002"},
		},
		{
			name:      "truncated to max",
			text:      "<<IMG:IMG_PROD_001>> <<IMG:IMG_PROD_002>> <<IMG:IMG_PROD_003>> <<IMG:IMG_PROD_004>>",
			maxImages: 3,
			wantText:  "",
			wantIds:   []string{"IMG_PROD_001", "IMG_PROD_002", "IMG_PROD_003"},
		},
		{
			name:     "malformed markers ignored",
			text:     "ดูรูป <<IMG:prod_1>> <<IMG IMG_PROD_001>> <IMG:IMG_PROD_002>",
			wantText: "ดูรูป <<IMG:prod_1>> <<IMG IMG_PROD_001>> <IMG:IMG_PROD_002>",
			wantIds:  []string{},
		},
		{
			name:     "marker between sentences",
			text:     "ราคา 100 บาทค่ะ <<IMG:IMG_PROD_001>> สนใจสั่งเลยไหมคะ",
			wantText: "ราคา 100 บาทค่ะ สนใจสั่งเลยไหมคะ",
			wantIds:  []string{"IMG_PROD_001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotIds := Extract(tt.text, tt.maxImages)
			assert.Equal(t, tt.wantText, gotText)
			assert.Equal(t, tt.wantIds, gotIds)
		})
	}
}

func TestExtractIsPure(t *testing.T) {
	input := "ข้อความ <<IMG:IMG_PROD_001>>"
	first, _ := Extract(input, 0)
	second, _ := Extract(input, 0)
	assert.Equal(t, first, second)
	assert.Equal(t, "ข้อความ <<IMG:IMG_PROD_001>>", input)
}
