package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/config"
	"github.com/masstools/massalign/pkg/filter"
	"github.com/masstools/massalign/pkg/gene"
	"github.com/masstools/massalign/pkg/reader/fasta"
	"github.com/masstools/massalign/pkg/render"
	"github.com/masstools/massalign/pkg/seq"
	"github.com/masstools/massalign/pkg/writer/sqlite"
)

var (
	dbFile       string
	outputFile   string
	genesMode    bool
	specificGene string
	species      string
	chains       []string
	geneTypes    []string
	topN         int
	threads      int
	minScore     int
	minIdentity  float64
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Align a query against every sequence in a database",
	Long: `Align the query against every entry of a FASTA database and print the
hits ranked by score, followed by the full alignment of the best match.
With --genes, FASTA headers are read as immune-gene metadata
(species=.. chain=.. gene=..) and can be filtered before alignment.
With --specific-gene, the query is aligned against that one database
entry instead of being ranked against all of them.

Examples:
  # Rank the ten best database matches
  massalign search AKTNLSHLGYGMDV --db genes.fasta

  # Search human heavy-chain V genes only, write hits to SQLite
  massalign search AKTNLSHLGYGMDV --db imgt.fasta --genes \
    --species "Homo sapiens" --chain Heavy --gene-type V --out hits.db

  # Align against a single named gene
  massalign search AKTNLSHLGYGMDV --db imgt.fasta --specific-gene IGHV3-23`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&dbFile, "db", "", "FASTA database to search (required)")
	searchCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write hits to this SQLite file")
	searchCmd.Flags().BoolVar(&genesMode, "genes", false, "Parse FASTA headers as immune-gene metadata")
	searchCmd.Flags().StringVar(&specificGene, "specific-gene", "", "Align against this one database entry by name")
	searchCmd.Flags().StringVar(&species, "species", "", "Keep only genes of this species (implies --genes)")
	searchCmd.Flags().StringSliceVar(&chains, "chain", nil, "Keep only genes of these chains (implies --genes)")
	searchCmd.Flags().StringSliceVar(&geneTypes, "gene-type", nil, "Keep only genes of these types (implies --genes)")
	searchCmd.Flags().IntVarP(&topN, "top-n", "n", 0, "How many hits to keep (0 = config default)")
	searchCmd.Flags().IntVar(&threads, "threads", 0, "Number of worker threads (0 = one per CPU)")
	searchCmd.Flags().IntVar(&minScore, "min-score", 0, "Drop hits below this score")
	searchCmd.Flags().Float64Var(&minIdentity, "min-identity", 0, "Drop hits below this identity fraction (0..1)")
	searchCmd.Flags().IntVar(&width, "width", render.DefaultWidth, "Wrap width for alignment output")
	searchCmd.Flags().StringVar(&topology, "topology", "semi-global", "Alignment topology")
	searchCmd.Flags().StringVar(&mode, "mode", "mass", "Scoring mode: mass or identity")

	searchCmd.MarkFlagRequired("db")

	viper.BindPFlag("search.top-n", searchCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("search.threads", searchCmd.Flags().Lookup("threads"))
}

func runSearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	query, err := seq.Parse(args[0], lib)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}
	c, err := config.New()
	if err != nil {
		return err
	}

	records, err := loadRecords(lib)
	if err != nil {
		return err
	}

	if specificGene != "" {
		return alignSpecificGene(out, query, records, opts)
	}

	entries := databaseEntries(records)
	if len(entries) == 0 {
		return fmt.Errorf("database %s has no entries after filtering", dbFile)
	}

	hits, err := align.Search(cmd.Context(), query, entries, opts, c.Search.TopN, c.Search.Threads)
	if err != nil {
		return err
	}
	if minScore > 0 || minIdentity > 0 {
		f := filter.Config{MinScore: minScore, MinIdentity: minIdentity}
		hits = f.Hits(hits)
	}

	fmt.Fprintf(out, "query: %s  database: %s (%d entries)\n\n", query, dbFile, len(entries))
	fmt.Fprint(out, render.Hits(hits))
	if len(hits) > 0 {
		fmt.Fprintf(out, "\nbest match: %s\n", hits[0].Name)
		fmt.Fprint(out, render.Alignment(hits[0].Alignment, width))
	}

	if outputFile != "" {
		w, err := sqlite.NewWriter(outputFile)
		if err != nil {
			return err
		}
		if err := w.WriteSearch(query, opts, len(entries), hits); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWrote %d hits to %s\n", len(hits), outputFile)
	}
	return nil
}

// alignSpecificGene looks the named entry up in the database and prints its
// alignment against the query.
func alignSpecificGene(out io.Writer, query *seq.Sequence, records []gene.Record, opts align.Options) error {
	db := gene.New(records)
	rec, ok := db.FindByName(specificGene)
	if !ok {
		return fmt.Errorf("gene %q not found in %s", specificGene, dbFile)
	}

	result, err := align.Align(query, rec.Seq, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "query: %s  gene: %s\n\n", query, rec.Name)
	fmt.Fprint(out, render.Alignment(result, width))
	return nil
}

// loadRecords reads the FASTA file into gene records, applying the gene
// filters when requested.
func loadRecords(lib seq.ModResolver) ([]gene.Record, error) {
	f, err := os.Open(dbFile)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer f.Close()

	records, err := fasta.ReadAll(f, lib)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dbFile, err)
	}

	genes := make([]gene.Record, len(records))
	for i, r := range records {
		genes[i] = r.Gene()
	}
	if !genesMode && species == "" && len(chains) == 0 && len(geneTypes) == 0 {
		return genes, nil
	}
	gf := filter.Config{Species: species, Chains: chains, GeneTypes: geneTypes}
	return gf.Genes(genes), nil
}

func databaseEntries(records []gene.Record) []align.Entry {
	return gene.Entries(records)
}
