package httputil_test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/epicflow/pkg/cache"
	"github.com/matzehuels/epicflow/pkg/httputil"
)

func ExampleCache() {
	dir, _ := os.MkdirTemp("", "epicflow-example")
	defer os.RemoveAll(dir)

	backend, err := cache.NewFileCache(dir)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	c := httputil.NewCache(backend, nil, "github:", 10*time.Minute)
	ctx := context.Background()

	issue := map[string]any{"number": 12, "title": "Checkout revamp"}
	if err := c.Set(ctx, "acme/web#12", issue); err != nil {
		fmt.Println("Error:", err)
		return
	}

	var got struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
	}
	if ok, err := c.Get(ctx, "acme/web#12", &got); ok && err == nil {
		fmt.Println("Number:", got.Number)
		fmt.Println("Title:", got.Title)
	}
	// Output:
	// Number: 12
	// Title: Checkout revamp
}

func ExampleCache_miss() {
	c := httputil.NewCache(cache.NewNullCache(), nil, "github:", time.Hour)

	var result string
	ok, err := c.Get(context.Background(), "nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}
