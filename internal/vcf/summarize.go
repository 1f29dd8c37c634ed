package vcf

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Summary counts the variant classes of one file. SNPs are counted in MNPs
// as well.
type Summary struct {
	Path    string
	Records int
	SNPs    int
	MNPs    int
	Indels  int
}

// Summarize classifies every record of each path using up to workers
// goroutines, one Stream per file. Results are in the order of paths. The
// first failure cancels the remaining work.
func Summarize(ctx context.Context, paths []string, workers int) ([]Summary, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Summary, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			sum, err := summarizeFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func summarizeFile(ctx context.Context, path string) (Summary, error) {
	sum := Summary{Path: path}
	err := WithStream(path, Read, func(s *Stream) error {
		for rec, err := range s.Records() {
			if err != nil {
				return err
			}
			if sum.Records%4096 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			sum.Records++
			if rec.IsSNP() {
				sum.SNPs++
			}
			if rec.IsMNP() {
				sum.MNPs++
			}
			if rec.IsIndel() {
				sum.Indels++
			}
		}
		return nil
	})
	return sum, errors.Wrapf(err, "summarizing %s", path)
}
