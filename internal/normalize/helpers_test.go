package normalize

import (
	"github.com/thumblens/thumblens/internal/domain/category"
)

func testOrder() *category.Order {
	return category.NewOrder([]string{
		"mrbeast", "2015", "2016", "2017", "2018", "2019", "2020",
		"2021", "2022", "2023", "2024", "2025",
	})
}

func intp(v int) *int { return &v }
