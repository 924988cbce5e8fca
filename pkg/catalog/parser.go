// Package catalog parses structured product files and renders rows as
// natural-language sentences so semantic search matches on meaning rather
// than raw field values. Metadata columns are kept alongside for filtering.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ProductColumns is the expected header of a structured product file.
var ProductColumns = []string{"id", "name", "sku", "price", "stock", "color", "model", "screen_size"}

// Product is one parsed catalog row.
type Product struct {
	Name       string
	Sku        string
	Price      float64
	Stock      int
	Color      string
	Model      string
	ScreenSize float64
}

// ParseProductFile parses pipe-delimited content. It returns nil when the
// first line is not the expected header — callers then fall back to
// plain-text ingestion. Rows with the wrong column count or unparseable
// numerics are skipped, not fatal.
func ParseProductFile(content string) []Product {
	lines := nonEmptyLines(content)
	if len(lines) == 0 {
		return nil
	}

	header := splitRow(lines[0])
	if !equalColumns(header, ProductColumns) {
		return nil
	}

	var products []Product
	for _, line := range lines[1:] {
		cols := splitRow(line)
		if len(cols) != len(ProductColumns) {
			continue
		}

		price, err := strconv.ParseFloat(cols[3], 64)
		if err != nil {
			continue
		}
		stock, err := strconv.Atoi(cols[4])
		if err != nil {
			continue
		}
		screen, err := strconv.ParseFloat(cols[7], 64)
		if err != nil {
			continue
		}

		products = append(products, Product{
			Name:       cols[1],
			Sku:        cols[2],
			Price:      price,
			Stock:      stock,
			Color:      cols[5],
			Model:      cols[6],
			ScreenSize: screen,
		})
	}

	return products
}

// ToNaturalLanguage renders a product as the deterministic Thai sentence
// used for embedding, e.g.
//
//	"iPhone 16 Pro Max สีดำไทเทเนียม หน้าจอ 6.9 นิ้ว ราคา 52,900 บาท มีสินค้า 15 เครื่อง (SKU: IPH-16PM-BLK-256)"
func (p Product) ToNaturalLanguage() string {
	return fmt.Sprintf("%s สี%s หน้าจอ %s นิ้ว ราคา %s บาท มีสินค้า %d เครื่อง (SKU: %s)",
		p.Name,
		p.Color,
		formatScreen(p.ScreenSize),
		FormatPrice(p.Price),
		p.Stock,
		p.Sku,
	)
}

// FormatPrice renders a baht amount with thousands separators, dropping
// fractional satang the way the storefront displays prices.
func FormatPrice(price float64) string {
	whole := int64(price)
	s := strconv.FormatInt(whole, 10)

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}

func formatScreen(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PlainLines extracts ingestible lines from an unstructured text file:
// one line = one document, skipping blanks and ASCII-art ruler lines.
func PlainLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if isRulerLine(stripped) {
			continue
		}
		out = append(out, stripped)
	}
	return out
}

func isRulerLine(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("=-+|# \t─━═╔╗╚╝║╠╣╦╩", r) {
			return false
		}
	}
	return true
}

func nonEmptyLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitRow(line string) []string {
	cols := strings.Split(line, "|")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
