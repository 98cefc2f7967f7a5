// Command ystrlr estimates a Y-line likelihood ratio from flat input
// files: a mutation-rate table, a TGF pedigree, observed haplotypes, an
// evidence haplotype, and a population frequency table. It is orchestration
// only; the engine lives in the library packages.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/loader"
	"github.com/katalvlaran/ystrlr/lr"
	"github.com/katalvlaran/ystrlr/meiosis"
	"github.com/katalvlaran/ystrlr/pedigree"
	"github.com/katalvlaran/ystrlr/simulate"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ystrlr:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ystrlr",
		Short:         "Y-STR kinship likelihood-ratio estimation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())

	return root
}

func newRunCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the importance-sampling simulation and print the LR",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg := v.GetString("config"); cfg != "" {
				v.SetConfigFile(cfg)
				if err := v.ReadInConfig(); err != nil {
					return err
				}
			}
			return run(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "optional config file (any viper-supported format)")
	flags.String("markers", "", "mutation-rate CSV (marker,rate)")
	flags.String("pedigree", "", "TGF pedigree file")
	flags.StringArray("haplotype", nil, "observed haplotype as id=path, repeatable")
	flags.String("evidence", "", "evidence haplotype CSV the suspect is matched against")
	flags.String("frequencies", "", "population frequency CSV (marker,allele,freq)")
	flags.String("suspect", "", "suspect individual id")
	flags.Int("iterations", 100000, "Monte Carlo iterations")
	flags.Int64("seed", simulate.DefaultSeed, "random seed")
	flags.Int("workers", 1, "parallel workers")
	flags.Float64("bias", meiosis.DefaultProposalBias, "proposal bias toward the evidence, in [0,1)")
	flags.Float64("step-decay", meiosis.DefaultStepDecay, "multi-step mutation decay, in [0,1)")
	flags.Bool("verbose", false, "log run progress to stderr")
	cobra.CheckErr(v.BindPFlags(flags))
	for _, required := range []string{"markers", "pedigree", "evidence", "frequencies", "suspect"} {
		cobra.CheckErr(cmd.MarkFlagRequired(required))
	}

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	ms, err := loadMarkerSet(v.GetString("markers"))
	if err != nil {
		return err
	}
	builder, err := loadPedigree(v.GetString("pedigree"), ms)
	if err != nil {
		return err
	}
	for _, spec := range v.GetStringSlice("haplotype") {
		id, path, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("haplotype %q: want id=path", spec)
		}
		h, err := loadHaplotype(path, ms)
		if err != nil {
			return err
		}
		builder.Observe(id, h)
	}
	ped, err := builder.SetSuspect(v.GetString("suspect")).Build()
	if err != nil {
		return err
	}
	evidence, err := loadHaplotype(v.GetString("evidence"), ms)
	if err != nil {
		return err
	}
	freq, err := loadFrequencies(v.GetString("frequencies"))
	if err != nil {
		return err
	}
	model, err := meiosis.NewModel(ms,
		meiosis.WithTarget(evidence),
		meiosis.WithProposalBias(v.GetFloat64("bias")),
		meiosis.WithStepDecay(v.GetFloat64("step-decay")),
	)
	if err != nil {
		return err
	}

	opts := []simulate.Option{
		simulate.WithContext(cmd.Context()),
		simulate.WithSeed(v.GetInt64("seed")),
		simulate.WithWorkers(v.GetInt("workers")),
	}
	if v.GetBool("verbose") {
		opts = append(opts, simulate.WithLogger(funcr.New(func(prefix, args string) {
			fmt.Fprintln(os.Stderr, prefix, args)
		}, funcr.Options{})))
	}

	res, err := simulate.Run(ped, model, freq, v.GetInt("iterations"), opts...)
	if err != nil {
		return err
	}
	printResult(cmd, res)

	return nil
}

func printResult(cmd *cobra.Command, res *simulate.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run            %s\n", res.RunID)
	fmt.Fprintf(out, "LR             %.6g\n", res.LR)
	fmt.Fprintf(out, "standard error %.6g\n", res.StandardError)
	fmt.Fprintf(out, "match prob     %.6g (baseline %.6g)\n", res.MatchProbability, res.Baseline)
	fmt.Fprintf(out, "ESS            %.1f of %d iterations\n", res.EffectiveSampleSize, res.Iterations)
	fmt.Fprintf(out, "elapsed        %s (seed %d, workers %d)\n", res.Elapsed, res.Seed, res.Workers)
	for _, warn := range res.Warnings {
		fmt.Fprintf(out, "warning        %s\n", warn.Error())
	}
}

func loadMarkerSet(path string) (*core.MarkerSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loader.MarkerSet(f)
}

func loadPedigree(path string, ms *core.MarkerSet) (*pedigree.Builder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loader.Pedigree(f, ms)
}

func loadHaplotype(path string, ms *core.MarkerSet) (*core.Haplotype, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loader.Haplotype(f, ms)
}

func loadFrequencies(path string) (*lr.FrequencyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loader.Frequencies(f)
}
