package vcf

import (
	"bytes"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/biokit/internal/format"
)

const sampleVCF = `##fileformat=VCFv4.2
##INFO=<ID=NS,Number=1,Type=Integer,Description="Number of Samples With Data">
##INFO=<ID=DB,Number=0,Type=Flag,Description="dbSNP membership, build 129">
##FILTER=<ID=q10,Description="Quality below 10">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	NA00001	NA00002
20	14370	rs6054257	G	A	29	PASS	NS=3;DP=14;AF=0.5;DB;H2	GT:GQ:DP:HQ	0|0:48:1:51,51	1|0:48:8:51,51
20	17330	.	T	A	3	q10	NS=3;DP=11;AF=0.017	GT:GQ:DP:HQ	0|0:49:3:58,50	0|1:3:5:65,3
20	1110696	rs6040355	A	G	67	PASS	NS=2;DP=10;AF=0.333	GT:GQ:DP:HQ	1|2:21:6:23,27	2|1:2:0:18,2
20	1230237	.	T	.	47	PASS	NS=3;DP=13;AA=T	GT:GQ:DP:HQ	0|0:54:7:56,60	0|0:48:4:51,51
20	1234567	microsat1	GTC	G	50	PASS	NS=3;DP=9;AA=G	GT:GQ:DP	0/1:35:4	0/2:17:2
20	1234600	.	AC	TG	50	PASS	NS=3	GT	1/1	1/1
`

const siteOnlyVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
Y	2728456	rs2058276	T	C	32	.	AC=2;AN=2;DB;DP=182;H2;NS=65
Y	2734240	.	G	A	31	.	AC=1;AN=2;DP=196;NS=63
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func openRead(t *testing.T, path string) *Stream {
	t.Helper()
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Open(Read))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path       string
		compressed bool
		wantErr    bool
	}{
		{"calls.vcf", false, false},
		{"calls.vcf.gz", true, false},
		{"calls.gz", true, false},
		{"calls.vcf.xyz", false, true},
		{"calls.bcf", false, true},
		{"calls", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			s, err := New(filepath.Join(t.TempDir(), tt.path))
			if tt.wantErr {
				var ce *ConfigError
				require.ErrorAs(t, err, &ce)
				var ee *format.ExtensionError
				assert.ErrorAs(t, err, &ee)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.compressed, s.Compressed())
		})
	}
}

func TestNewBadExtensionBeforeIO(t *testing.T) {
	t.Parallel()

	// The file does not exist; the extension check must fail first.
	_, err := New("/nonexistent/dir/calls.vcf.xyz")
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "calls.vcf.xyz")
}

func TestOpenMode(t *testing.T) {
	t.Parallel()

	s, err := New(writeFixture(t, "a.vcf", sampleVCF))
	require.NoError(t, err)

	var ce *ConfigError
	require.ErrorAs(t, s.Open(Mode(9)), &ce)
	assert.Equal(t, Mode(0), s.Mode())

	_, err = ParseMode("a")
	require.ErrorAs(t, err, &ce)

	m, err := ParseMode("r")
	require.NoError(t, err)
	require.NoError(t, s.Open(m))
	require.Error(t, s.Open(Read))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.ReadLine(true)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestReadLineSkipMeta(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))
	assert.Equal(t, DefaultHeader, s.Header())

	line, err := s.ReadLine(true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "20\t14370\t"))
	assert.Equal(t, []string{"NA00001", "NA00002"}, s.Samples())
	assert.Len(t, s.Header(), 11)

	n := 1
	for {
		_, err := s.ReadLine(true)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 6, n)

	line, err = s.ReadLine(true)
	assert.Empty(t, line)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLineKeepMeta(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))

	line, err := s.ReadLine(false)
	require.NoError(t, err)
	assert.Equal(t, "##fileformat=VCFv4.2", line)

	for range 4 {
		_, err = s.ReadLine(false)
		require.NoError(t, err)
	}
	line, err = s.ReadLine(false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "#CHROM"))
	assert.Equal(t, "NA00002", s.Header()[10])
}

func TestRecords(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))

	var recs []*Record
	for rec, err := range s.Records() {
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	require.Len(t, recs, 6)
	assert.Equal(t, 14370, recs[0].Pos)
	assert.Equal(t, "0|0", recs[0].SampleInfo["NA00001"]["GT"])
	assert.Equal(t, "51,51", recs[0].SampleInfo["NA00002"]["HQ"])
	assert.Equal(t, []string{"q10"}, recs[1].Filter)
	assert.Equal(t, "1/1", recs[5].SampleInfo["NA00002"]["GT"])
}

func TestRecordsParseErrorHasLine(t *testing.T) {
	t.Parallel()

	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t10\t.\tA\tC\t1\tPASS\tDP=1\n" +
		"1\tten\t.\tA\tC\t1\tPASS\tDP=1\n" +
		"1\t30\t.\tA\tC\t1\tPASS\tDP=1\n"
	s := openRead(t, writeFixture(t, "bad.vcf", content))

	var n int
	var lastErr error
	for _, err := range s.Records() {
		if err != nil {
			lastErr = err
			continue
		}
		n++
	}
	assert.Equal(t, 1, n)

	var pe *ParseError
	require.ErrorAs(t, lastErr, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, ColPos, pe.Field)
	assert.Equal(t, "ten", pe.Value)
}

func TestRecordsEarlyBreak(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))
	for range s.Records() {
		break
	}
	// The stream stays open at the following line.
	rec, err := ParseLine(mustReadLine(t, s), s.Header())
	require.NoError(t, err)
	assert.Equal(t, 17330, rec.Pos)
}

func mustReadLine(t *testing.T, s *Stream) string {
	t.Helper()
	line, err := s.ReadLine(true)
	require.NoError(t, err)
	return line
}

const reheaderedVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	A
1	100	.	A	C	10	PASS	DP=1	GT	0/1
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	B	C
1	200	.	G	T	10	PASS	DP=2	GT	1/1	0/0
1	300	.	G	GA	10	PASS	DP=3	GT	0/0	0/0
`

func TestHeaderChangesMidStream(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "reheadered.vcf", reheaderedVCF)

	t.Run("records", func(t *testing.T) {
		t.Parallel()

		s := openRead(t, path)
		var recs []*Record
		for rec, err := range s.Records() {
			require.NoError(t, err)
			recs = append(recs, rec)
		}
		require.Len(t, recs, 3)
		assert.Equal(t, map[string]map[string]string{"A": {"GT": "0/1"}}, recs[0].SampleInfo)
		assert.Equal(t, map[string]map[string]string{"B": {"GT": "1/1"}, "C": {"GT": "0/0"}}, recs[1].SampleInfo)
		assert.Equal(t, []string{"B", "C"}, recs[2].Samples())
	})

	t.Run("genotype scan", func(t *testing.T) {
		t.Parallel()

		s := openRead(t, path)
		var got []string
		for line, err := range s.GetGenotype([]string{"0/0"}) {
			require.NoError(t, err)
			got = append(got, strings.Split(line, "\t")[1])
		}
		// Line 200 matches only through sample C of the second header.
		assert.Equal(t, []string{"200", "300"}, got)
	})

	t.Run("read line", func(t *testing.T) {
		t.Parallel()

		s := openRead(t, path)
		var headers [][]string
		for {
			line, err := s.ReadLine(false)
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			if strings.HasPrefix(line, "#CHROM") {
				headers = append(headers, s.Header())
			}
		}
		require.Len(t, headers, 2)
		assert.Equal(t, []string{"A"}, headers[0][9:])
		assert.Equal(t, []string{"B", "C"}, headers[1][9:])
		assert.Equal(t, []string{"B", "C"}, s.Samples())
	})
}

func TestReadLineSkipsConsecutiveHeaders(t *testing.T) {
	t.Parallel()

	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tA\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tB\tC\n" +
		"1\t200\t.\tG\tT\t10\tPASS\tDP=2\tGT\t1/1\t0/0\n"
	s := openRead(t, writeFixture(t, "twice.vcf", content))

	line, err := s.ReadLine(true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "1\t200\t"))
	assert.Equal(t, []string{"B", "C"}, s.Samples())
	assert.True(t, s.HasGenotype(line, []string{"0/0"}))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))

	var snp, mnp, indel int
	for {
		line, err := s.ReadLine(true)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if s.IsSNP(line) {
			snp++
		}
		if s.IsMNP(line) {
			mnp++
		}
		if s.IsIndel(line) {
			indel++
		}
	}
	assert.Equal(t, 4, snp)
	assert.Equal(t, 5, mnp)
	assert.Equal(t, 1, indel)

	assert.False(t, s.IsSNP("too\tshort"))
}

func TestGetGenotype(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     []string
		get     []int // positions yielded by GetGenotype
		exclude []int // positions yielded by FilterGenotype
	}{
		{"absent genotype", []string{"0/0"}, nil, []int{14370, 17330, 1110696, 1230237, 1234567, 1234600}},
		{"phased ref", []string{"0|0"}, []int{14370, 17330, 1230237}, []int{1110696, 1234567, 1234600}},
		{"several", []string{"1/1", "0/2"}, []int{1234567, 1234600}, []int{14370, 17330, 1110696, 1230237}},
	}

	collect := func(t *testing.T, seq func(*Stream) iter.Seq2[string, error]) []int {
		t.Helper()
		s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))
		var got []int
		for line, err := range seq(s) {
			require.NoError(t, err)
			rec, err := ParseLine(line, s.Header())
			require.NoError(t, err)
			got = append(got, rec.Pos)
		}
		return got
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			get := collect(t, func(s *Stream) iter.Seq2[string, error] { return s.GetGenotype(tt.set) })
			assert.Equal(t, tt.get, get)

			exclude := collect(t, func(s *Stream) iter.Seq2[string, error] { return s.FilterGenotype(tt.set) })
			assert.Equal(t, tt.exclude, exclude)
		})
	}
}

func TestGetGenotypeSiteOnly(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "sites.vcf", siteOnlyVCF))
	n := 0
	for _, err := range s.GetGenotype([]string{"0/0"}) {
		require.NoError(t, err)
		n++
	}
	assert.Zero(t, n)
}

func TestGetGenotypeNotOpen(t *testing.T) {
	t.Parallel()

	s, err := New(writeFixture(t, "a.vcf", sampleVCF))
	require.NoError(t, err)
	for _, err := range s.GetGenotype([]string{"0/0"}) {
		assert.ErrorIs(t, err, ErrNotOpen)
	}
}

func TestGenotypeLineTests(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))
	first := mustReadLine(t, s) // 0|0 and 1|0
	mustReadLine(t, s)
	mustReadLine(t, s)
	fourth := mustReadLine(t, s) // 0|0 and 0|0

	assert.True(t, s.HasGenotype(first, []string{"0|0"}))
	assert.False(t, s.IsPartOfGenotypes(first, []string{"0|0"}))
	assert.True(t, s.IsPartOfGenotypes(first, []string{"0|0", "1|0", "1/1"}))
	assert.True(t, s.IsPartOfGenotypes(fourth, []string{"0|0"}))

	noGT := "20\t1\t.\tA\tC\t1\tPASS\tDP=1\tGQ\t10\t20"
	assert.False(t, s.HasGenotype(noGT, []string{"10"}))
	assert.False(t, s.IsPartOfGenotypes(noGT, []string{"10", "20"}))
}

func TestWriteReadGzip(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	path := filepath.Join(t.TempDir(), "out.vcf.gz")
	var written, dropped int
	err := WithStream(path, Write, func(s *Stream) error {
		for _, line := range strings.SplitAfter(strings.TrimSuffix(sampleVCF, "\n"), "\n") {
			ok, err := s.Write(line)
			if err != nil {
				return err
			}
			if ok {
				written++
			}
		}
		ok, err := s.Write("20\t1\t.\tA\tC") // wrong column count
		if !ok {
			dropped++
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 12, written)
	assert.Equal(t, 1, dropped)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 5, hook.LastEntry().Data["columns"])
	assert.Equal(t, 11, hook.LastEntry().Data["expected"])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, format.GzipMagic))

	s := openRead(t, path)
	assert.True(t, s.Compressed())
	n := 0
	for _, err := range s.Records() {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 6, n)
}

func TestWriteNotOpen(t *testing.T) {
	t.Parallel()

	s, err := New(filepath.Join(t.TempDir(), "a.vcf"))
	require.NoError(t, err)
	_, err = s.Write("##x=y")
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestWriteAddsNewline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.vcf")
	require.NoError(t, WithStream(path, Write, func(s *Stream) error {
		for _, line := range []string{"##fileformat=VCFv4.2", "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n", "1\t1\t.\tA\tC\t1\tPASS\tDP=1"} {
			if _, err := s.Write(line); err != nil {
				return err
			}
		}
		return nil
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t1\t.\tA\tC\t1\tPASS\tDP=1\n", string(raw))
}

func TestMetaInfoIndependentHandle(t *testing.T) {
	t.Parallel()

	s := openRead(t, writeFixture(t, "a.vcf", sampleVCF))
	first := mustReadLine(t, s)

	mi, err := s.MetaInfo()
	require.NoError(t, err)
	assert.Len(t, mi["INFO"], 2)
	assert.Len(t, mi["FILTER"], 1)
	assert.Len(t, mi["FORMAT"], 1)
	assert.Equal(t, ValueMeta{Name: "fileformat", Value: "VCFv4.2"}, mi["fileformat"][0])
	assert.Equal(t, "dbSNP membership, build 129", mi["INFO"][1].(InfoMeta).Description)

	// The caller's handle continues where it was.
	second := mustReadLine(t, s)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "20\t17330\t"))
}

func TestHeaderLines(t *testing.T) {
	t.Parallel()

	s, err := New(writeFixture(t, "a.vcf", sampleVCF))
	require.NoError(t, err)

	var lines []string
	for line, err := range s.HeaderLines() {
		require.NoError(t, err)
		lines = append(lines, line)
	}
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[5], "#CHROM"))
	assert.Equal(t, Mode(0), s.Mode())
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "a.vcf")
	require.NoError(t, os.WriteFile(plain, []byte(sampleVCF), 0o600))
	sites := filepath.Join(dir, "b.vcf")
	require.NoError(t, os.WriteFile(sites, []byte(siteOnlyVCF), 0o600))

	got, err := Summarize(context.Background(), []string{plain, sites, plain}, 2)
	require.NoError(t, err)
	require.Len(t, got, 3)

	want := Summary{Path: plain, Records: 6, SNPs: 4, MNPs: 5, Indels: 1}
	assert.Equal(t, want, got[0])
	assert.Equal(t, Summary{Path: sites, Records: 2, SNPs: 2, MNPs: 2}, got[1])
	assert.Equal(t, want, got[2])
}

func TestSummarizeErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.vcf")
	require.NoError(t, os.WriteFile(bad, []byte("1\tx\t.\tA\tC\t1\tPASS\t.\n"), 0o600))

	_, err := Summarize(context.Background(), []string{bad}, 1)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)

	_, err = Summarize(context.Background(), []string{filepath.Join(dir, "x.txt")}, 1)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}
