// Package prodex ranks a product catalog against a free-text shopping query.
//
// A configured language model is asked first; when it is missing, slow, or
// answers with nothing usable, a deterministic keyword scorer takes over.
// The scorer understands price bounds ("under $50", "over $100"), rating
// requirements ("good reviews") and category intent ("men's", "accessories").
//
//	engine, _ := prodex.New(
//	    prodex.WithOpenAI(os.Getenv("OPENROUTER_API_KEY"), "", ""),
//	    prodex.WithTimeout(5*time.Second),
//	)
//	res, err := engine.Search(ctx, "jackets under $60", catalog)
//	if err != nil {
//	    return err
//	}
//	for _, p := range res.Products {
//	    fmt.Println(p.ID, p.Title)
//	}
//
// Without WithOpenAI or WithCompleter every search takes the keyword path and
// Result.Fallback is true.
package prodex
