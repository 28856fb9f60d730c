package main

import (
	"context"
	"encoding/gob"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/frodel/windowrag/pkg/embedder"
	"github.com/frodel/windowrag/pkg/fusion"
	"github.com/frodel/windowrag/pkg/rewrite"
	"github.com/frodel/windowrag/pkg/windowrag"
)

func main() {
	// Load .env file if it exists (for API key)
	_ = godotenv.Load()

	// Parse command line flags
	indexPath := flag.String("index", "embeddings/index.gob", "path to the embedding index")
	top := flag.Int("top", 5, "number of results to return")
	threshold := flag.Float64("threshold", 0.0, "minimum similarity score")
	neighbors := flag.Int("neighbors", 0, "context window radius: stitch this many chunks on each side of a match")
	useFusion := flag.Bool("fusion", false, "fuse vector results with keyword search")
	doRewrite := flag.Bool("rewrite", false, "rewrite the query with the chat model before retrieval")
	subQueries := flag.Int("subqueries", 0, "decompose the query into this many sub-queries")
	hyde := flag.Bool("hyde", false, "embed a hypothetical answer passage instead of the query")
	full := flag.Bool("full", false, "show chunk content instead of just paths")
	verbose := flag.Bool("verbose", false, "enable verbose output for debugging")
	flag.Parse()

	// Get query string
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: windowrag [options] <query>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	query := strings.Join(args, " ")
	ctx := context.Background()

	// Step 1: Load index
	if *verbose {
		fmt.Printf("[DEBUG] Loading index from %s...\n", *indexPath)
	}

	file, err := os.Open(*indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run generate-embeddings first to build it\n")
		os.Exit(1)
	}

	var embData windowrag.EmbeddingData
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&embData); err != nil {
		file.Close()
		fmt.Fprintf(os.Stderr, "Error loading index: %v\n", err)
		os.Exit(1)
	}
	file.Close()

	if *verbose {
		fmt.Printf("[DEBUG] Loaded %d chunks, %d embeddings (dim=%d, model=%s, size=%d, overlap=%d)\n",
			len(embData.Chunks), len(embData.Embeddings), embData.Dimension, embData.ModelInfo,
			embData.ChunkSize, embData.ChunkOverlap)
	}

	store := windowrag.NewStore(&embData)

	// Step 2: Initialize collaborators
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "Error: OPENAI_API_KEY environment variable not set\n")
		fmt.Fprintf(os.Stderr, "Please set it in .env file or environment\n")
		os.Exit(1)
	}

	emb, err := embedder.NewOpenAIEmbedder(embedder.Config{APIKey: apiKey})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing embedder: %v\n", err)
		os.Exit(1)
	}

	var completer rewrite.Completer
	if *doRewrite || *subQueries > 0 || *hyde {
		c, err := rewrite.NewOpenAICompleter(rewrite.Config{APIKey: apiKey})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing chat client: %v\n", err)
			os.Exit(1)
		}
		completer = c
	}

	// Step 3: Build the set of retrieval queries
	queries := []string{query}

	if *doRewrite {
		rewritten, err := rewrite.Rewrite(ctx, completer, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rewriting query: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("[DEBUG] Rewritten query: %q\n", rewritten)
		}
		queries = []string{rewritten}
	}

	if *subQueries > 0 {
		subs, err := rewrite.Decompose(ctx, completer, queries[0], *subQueries)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error decomposing query: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			for i, s := range subs {
				fmt.Printf("[DEBUG] Sub-query %d: %q\n", i+1, s)
			}
		}
		queries = subs
	}

	// Step 4: Optionally build a keyword index for fusion retrieval
	var kwIndex *fusion.Index
	if *useFusion {
		kwIndex, err = fusion.NewIndex(store.Chunks())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building keyword index: %v\n", err)
			os.Exit(1)
		}
		defer kwIndex.Close()
	}

	// Step 5: Retrieve one ranking per query variant, then merge
	var rankings [][]windowrag.SearchResult

	for _, q := range queries {
		toEmbed := q
		if *hyde {
			passage, err := rewrite.Hypothetical(ctx, completer, q)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error generating hypothetical passage: %v\n", err)
				os.Exit(1)
			}
			if *verbose {
				fmt.Printf("[DEBUG] Hypothetical passage: %q\n", passage)
			}
			toEmbed = passage
		}

		queryEmbedding, err := emb.Embed(toEmbed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error embedding query: %v\n", err)
			os.Exit(1)
		}

		if *useFusion {
			fused, err := kwIndex.Search(store, queryEmbedding, q, *top)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
				os.Exit(1)
			}
			rankings = append(rankings, fused)
		} else {
			rankings = append(rankings, store.Search(queryEmbedding, *top, float32(*threshold)))
		}
	}

	var results []windowrag.SearchResult
	if len(rankings) == 1 {
		results = rankings[0]
	} else {
		results = fusion.ReciprocalRankFusion(rankings)
	}
	if *top > 0 && *top < len(results) {
		results = results[:*top]
	}

	// Step 6: Display results
	if len(results) == 0 {
		fmt.Println("No results found")
		return
	}

	fmt.Printf("Found %d results:\n\n", len(results))
	for i, result := range results {
		fmt.Printf("Score: %.3f | %s [chunk %d]\n", result.Score, result.Chunk.Path, result.Chunk.Index)

		if *neighbors > 0 {
			fmt.Println()
			fmt.Println(store.Window(result.Chunk.Path, result.Chunk.Index, *neighbors))
		} else if *full {
			fmt.Println()
			fmt.Println(result.Chunk.Text)
		}

		if (*full || *neighbors > 0) && i < len(results)-1 {
			fmt.Println("\n" + strings.Repeat("-", 80) + "\n")
		}
	}
}
