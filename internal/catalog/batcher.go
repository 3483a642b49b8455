package catalog

import (
	"catsync/internal/models"
)

// CreateBatches partitions products into consecutive batches of at most
// size items, preserving order. Batch indexes are 1-based. N products
// always yield ceil(N/size) batches and no batch is ever empty.
func CreateBatches(products []models.Product, size int) []models.Batch {
	if size < 1 {
		size = 1
	}

	if len(products) == 0 {
		return nil
	}

	batches := make([]models.Batch, 0, (len(products)+size-1)/size)

	for start := 0; start < len(products); start += size {
		end := start + size
		if end > len(products) {
			end = len(products)
		}

		batches = append(batches, models.Batch{
			Index:    len(batches) + 1,
			Products: products[start:end],
		})
	}

	return batches
}
