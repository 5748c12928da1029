// Package medidex embeds the medidex medicine catalog in a Go program:
// tiered free-text search with filters, sort and pagination, catalog
// facets, and CSV import, over an in-memory, Redis/Valkey or SQLite catalog.
//
//	client, _ := medidex.New(ctx, medidex.WithSQLite("data/medidex.db"))
//	defer client.Close()
//
//	_, _ = client.ImportFile(ctx, "medicines.csv")
//
//	page, _ := client.Search(ctx, medidex.Query{
//	    Search:   "napa",
//	    MaxPrice: medidex.Price(10),
//	    Limit:    20,
//	})
//	for _, m := range page.Medicines {
//	    fmt.Println(m.Name, m.Price)
//	}
package medidex
