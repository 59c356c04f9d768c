package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/octree/freerange"
	"go.viam.com/octree/logging"
	"go.viam.com/octree/octree"
	"go.viam.com/octree/spatial"
)

func buildAction(c *cli.Context, logger logging.Logger) error {
	cfg := octree.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = readConfigFile(path); err != nil {
			return err
		}
	}
	center, err := parseCenter(c.Float64Slice(flagCenter))
	if err != nil {
		return err
	}
	box, err := spatial.NewBox(center, c.Float64(flagSide))
	if err != nil {
		return err
	}
	points, err := loadPoints(c, box)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return errors.Errorf("no points to insert, use --%s or --%s", flagPoints, flagRandom)
	}

	var stats octree.Stats
	var data []byte
	if depth := c.Int(flagDepth); depth > 0 {
		tree, err := octree.New(cfg, 0, logger)
		if err != nil {
			return err
		}
		for _, p := range points {
			cur, err := spatial.Refine(tree, box, p, depth)
			if err != nil {
				return err
			}
			*cur.Node().Ptr()++
		}
		stats = octree.ComputeStats(tree)
		if data, err = octree.Marshal(tree, octree.JSONCodec[int]{}, octree.MarshalOptions{Compress: true}); err != nil {
			return err
		}
	} else {
		if cfg.Dimension != spatial.MaxDimension {
			return errors.Errorf("point octrees need dimension %d, use --%s for dimension %d",
				spatial.MaxDimension, flagDepth, cfg.Dimension)
		}
		po, err := spatial.NewPointOctree[int](center, c.Float64(flagSide), cfg.MaxDepth, logger)
		if err != nil {
			return err
		}
		for i, p := range points {
			if err := po.Set(p, i); err != nil {
				return errors.Wrapf(err, "cannot insert point %d", i)
			}
		}
		stats = octree.ComputeStats(po.Tree())
		if data, err = po.MarshalOctree(); err != nil {
			return err
		}
	}
	fmt.Fprintln(c.App.Writer, stats.String())

	if out := c.String(flagOut); out != "" {
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return errors.Wrapf(err, "cannot write %q", out)
		}
		logger.Infow("wrote octree", "path", out, "bytes", len(data))
	}
	return nil
}

func inspectAction(c *cli.Context, logger logging.Logger) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("missing octree file argument")
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return errors.Wrapf(err, "cannot read %q", path)
	}
	tree, err := octree.Unmarshal(data, octree.JSONCodec[json.RawMessage]{}, logger)
	if err != nil {
		return errors.Wrapf(err, "cannot load %q", path)
	}
	fmt.Fprintln(c.App.Writer, octree.ComputeStats(tree).String())
	return nil
}

func allocAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("no allocator operations given")
	}
	alloc := freerange.New()

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Op", "Result", "Size"})
	for _, op := range c.Args().Slice() {
		switch {
		case strings.HasPrefix(op, "g"):
			count, err := strconv.Atoi(op[1:])
			if err != nil {
				return errors.Wrapf(err, "invalid grab %q", op)
			}
			t.AppendRow(table.Row{op, alloc.Grab(count), alloc.Size()})
		case strings.HasPrefix(op, "f"):
			start, count, ok := strings.Cut(op[1:], ":")
			if !ok {
				return errors.Errorf("invalid free %q, want fSTART:COUNT", op)
			}
			s, err := strconv.Atoi(start)
			if err != nil {
				return errors.Wrapf(err, "invalid free %q", op)
			}
			n, err := strconv.Atoi(count)
			if err != nil {
				return errors.Wrapf(err, "invalid free %q", op)
			}
			alloc.Free(s, n)
			t.AppendRow(table.Row{op, "", alloc.Size()})
		default:
			return errors.Errorf("unknown allocator operation %q", op)
		}
	}
	t.AppendSeparator()
	holes := lo.Map(alloc.Holes(), func(r freerange.Range, _ int) string {
		return fmt.Sprintf("[%d,%d)", r.Start, r.End())
	})
	t.AppendFooter(table.Row{"high water", alloc.HighWater(), strings.Join(holes, " ")})
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

func readConfigFile(path string) (*octree.Config, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open config %q", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Global().Warnw("cannot close config", "path", path, "error", err)
		}
	}()
	return octree.ReadConfig(f)
}

func parseCenter(coords []float64) (r3.Vector, error) {
	switch len(coords) {
	case 0:
		return r3.Vector{}, nil
	case 3:
		return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
	default:
		return r3.Vector{}, errors.Errorf("--%s needs 3 coordinates, got %d", flagCenter, len(coords))
	}
}

// loadPoints gathers the points named by --points and --random, in that order.
func loadPoints(c *cli.Context, box spatial.Box) ([]r3.Vector, error) {
	var points []r3.Vector
	if path := c.String(flagPoints); path != "" {
		//nolint:gosec
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open points %q", path)
		}
		points, err = readPoints(f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read points %q", path)
		}
	}
	if n := c.Int(flagRandom); n > 0 {
		points = append(points, randomPoints(rand.New(rand.NewSource(c.Int64(flagSeed))), box, n)...) //nolint:gosec
	}
	return points, nil
}

// readPoints parses one point per line with coordinates separated by spaces or commas. Blank
// lines and lines starting with # are skipped.
func readPoints(r io.Reader) ([]r3.Vector, error) {
	var points []r3.Vector
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool { return unicode.IsSpace(r) || r == ',' })
		if len(fields) != 3 {
			return nil, errors.Errorf("line %d: want 3 coordinates, got %d", line, len(fields))
		}
		var coords [3]float64
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			coords[i] = v
		}
		points = append(points, r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	return points, scanner.Err()
}

func randomPoints(rnd *rand.Rand, box spatial.Box, n int) []r3.Vector {
	size := box.Size()
	return lo.Times(n, func(int) r3.Vector {
		return r3.Vector{
			X: box.Min.X + rnd.Float64()*size.X,
			Y: box.Min.Y + rnd.Float64()*size.Y,
			Z: box.Min.Z + rnd.Float64()*size.Z,
		}
	})
}
