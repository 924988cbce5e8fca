package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `id|name|sku|price|stock|color|model|screen_size
001|iPhone 16 Pro Max|IPH-16PM-BLK-256|52900|15|ดำไทเทเนียม|iPhone 16 Pro Max|6.9
002|Galaxy S25 Ultra|SAM-S25U-GRY-512|48900|8|เทา|Galaxy S25 Ultra|6.8
bad row with too few columns
003|Redmi Note 14|XIA-RN14-BLU-128|notaprice|20|น้ำเงิน|Redmi Note 14|6.67`

func TestParseProductFile(t *testing.T) {
	products := ParseProductFile(sampleFile)
	require.Len(t, products, 2)

	assert.Equal(t, "iPhone 16 Pro Max", products[0].Name)
	assert.Equal(t, "IPH-16PM-BLK-256", products[0].Sku)
	assert.Equal(t, 52900.0, products[0].Price)
	assert.Equal(t, 15, products[0].Stock)
	assert.Equal(t, 6.9, products[0].ScreenSize)

	assert.Equal(t, "Galaxy S25 Ultra", products[1].Name)
}

func TestParseProductFileNonStructured(t *testing.T) {
	assert.Nil(t, ParseProductFile("สูตรน้ำซุปข้น ใช้ผงเครื่องเทศ 2 ช้อนโต๊ะ"))
	assert.Nil(t, ParseProductFile(""))
}

func TestToNaturalLanguage(t *testing.T) {
	p := Product{
		Name:       "iPhone 16 Pro Max",
		Sku:        "IPH-16PM-BLK-256",
		Price:      52900,
		Stock:      15,
		Color:      "ดำไทเทเนียม",
		Model:      "iPhone 16 Pro Max",
		ScreenSize: 6.9,
	}

	got := p.ToNaturalLanguage()
	assert.Equal(t, "iPhone 16 Pro Max สีดำไทเทเนียม หน้าจอ 6.9 นิ้ว ราคา 52,900 บาท มีสินค้า 15 เครื่อง (SKU: IPH-16PM-BLK-256)", got)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "100", FormatPrice(100))
	assert.Equal(t, "1,500", FormatPrice(1500))
	assert.Equal(t, "52,900", FormatPrice(52900.75))
	assert.Equal(t, "1,234,567", FormatPrice(1234567))
}

func TestPlainLines(t *testing.T) {
	content := "บรรทัดแรก\n\n====\n| --- |\nบรรทัดสอง\n"
	assert.Equal(t, []string{"บรรทัดแรก", "บรรทัดสอง"}, PlainLines(content))
}
