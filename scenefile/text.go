package scenefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matt-g-everett/animtx/scene"
)

// ErrSyntax is returned for a scene line that cannot be parsed.
var ErrSyntax = errors.New("syntax error")

// ReadText builds a scene from the line-oriented format:
//
//	# comment
//	canvas X Y WIDTH HEIGHT
//	shape NAME TYPE
//	motion NAME T1 X1 Y1 W1 H1 R1 G1 B1 T2 X2 Y2 W2 H2 R2 G2 B2
//	color NAME R G B T
//
// Errors carry the line number they were found on.
func ReadText(r io.Reader) (*scene.Model, error) {
	b := scene.NewBuilder()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := readLine(b, fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func readLine(b *scene.Builder, fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "canvas":
		if len(args) != 4 {
			return fmt.Errorf("%w: canvas needs 4 values, got %d", ErrSyntax, len(args))
		}
		v, err := ints(args)
		if err != nil {
			return err
		}
		return b.SetBounds(v[0], v[1], v[2], v[3])

	case "shape":
		if len(args) != 2 {
			return fmt.Errorf("%w: shape needs a name and a type", ErrSyntax)
		}
		return b.DeclareShape(args[0], args[1])

	case "motion":
		if len(args) != 17 {
			return fmt.Errorf("%w: motion needs a name and 16 values, got %d", ErrSyntax, len(args))
		}
		from, err := keyframe(args[1:9])
		if err != nil {
			return err
		}
		to, err := keyframe(args[9:17])
		if err != nil {
			return err
		}
		return b.AddMotion(args[0], from, to)

	case "color":
		if len(args) != 5 {
			return fmt.Errorf("%w: color needs a name and 4 values, got %d", ErrSyntax, len(args))
		}
		v, err := ints(args[1:])
		if err != nil {
			return err
		}
		return b.AddColor(args[0], scene.RGB255(v[0], v[1], v[2]), v[3])
	}
	return fmt.Errorf("%w: unknown keyword %q", ErrSyntax, fields[0])
}

func keyframe(args []string) (scene.Keyframe, error) {
	var k scene.Keyframe
	t, err := atoi(args[0])
	if err != nil {
		return k, err
	}
	geom := make([]float64, 4)
	for i, s := range args[1:5] {
		if geom[i], err = strconv.ParseFloat(s, 64); err != nil {
			return k, fmt.Errorf("%w: %q is not a number", ErrSyntax, s)
		}
	}
	rgb, err := ints(args[5:8])
	if err != nil {
		return k, err
	}
	return scene.Keyframe{
		T: t,
		X: geom[0], Y: geom[1], W: geom[2], H: geom[3],
		R: rgb[0], G: rgb[1], B: rgb[2],
	}, nil
}

func ints(args []string) ([]int, error) {
	v := make([]int, len(args))
	for i, s := range args {
		n, err := atoi(s)
		if err != nil {
			return nil, err
		}
		v[i] = n
	}
	return v, nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrSyntax, s)
	}
	return n, nil
}
