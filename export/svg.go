package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/scene"
)

type svgDocument struct {
	XMLName xml.Name   `xml:"svg"`
	Width   string     `xml:"width,attr"`
	Height  string     `xml:"height,attr"`
	ViewBox string     `xml:"viewBox,attr"`
	Version string     `xml:"version,attr"`
	XMLNS   string     `xml:"xmlns,attr"`
	Shapes  []svgShape
}

// svgShape is a rect or ellipse; XMLName carries the element name.
type svgShape struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Animates []svgAnimate `xml:"animate"`
	Sets     []svgSet     `xml:"set"`
}

type svgAnimate struct {
	AttributeType string `xml:"attributeType,attr"`
	Begin         string `xml:"begin,attr"`
	Dur           string `xml:"dur,attr"`
	AttributeName string `xml:"attributeName,attr"`
	From          string `xml:"from,attr"`
	To            string `xml:"to,attr"`
	Fill          string `xml:"fill,attr"`
}

type svgSet struct {
	AttributeType string `xml:"attributeType,attr"`
	AttributeName string `xml:"attributeName,attr"`
	To            string `xml:"to,attr"`
	Begin         string `xml:"begin,attr"`
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// seconds converts a tick count to SVG clock time at tempo ticks per second.
func seconds(ticks, tempo int) string {
	return decimal(float64(ticks)/float64(tempo)) + "s"
}

func rgb(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// WriteSVG writes m as an SVG document whose animations play at tempo ticks
// per second. Each shape becomes one element holding an animate directive
// per coordinate of every move, one per dimension of every resize, and a set
// directive per color change. Resizes compound in authoring order.
func WriteSVG(w io.Writer, m *scene.Model, tempo int) error {
	if m == nil {
		return fmt.Errorf("%w: nil model", scene.ErrInvalidArgument)
	}
	if tempo <= 0 {
		return fmt.Errorf("%w: tempo must be positive, got %d", scene.ErrInvalidArgument, tempo)
	}

	win := m.Window()
	doc := svgDocument{
		Width:   strconv.Itoa(win.Width),
		Height:  strconv.Itoa(win.Height),
		ViewBox: fmt.Sprintf("%d %d %d %d", win.X, win.Y, win.Width, win.Height),
		Version: "1.1",
		XMLNS:   "http://www.w3.org/2000/svg",
	}
	for _, s := range m.ShapesExact() {
		doc.Shapes = append(doc.Shapes, svgElement(s, tempo))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func svgElement(s *scene.Shape, tempo int) svgShape {
	name, xAttr, yAttr, wAttr, hAttr := s.Kind().Element()
	ref, size := s.Reference(), s.DeclaredSize()

	el := svgShape{
		XMLName: xml.Name{Local: name},
		Attrs: []xml.Attr{
			attr("id", s.Name()),
			attr(xAttr, decimal(ref.X)),
			attr(yAttr, decimal(ref.Y)),
			attr(wAttr, decimal(size.W)),
			attr(hAttr, decimal(size.H)),
			attr("fill", rgb(s.Color())),
		},
	}

	animate := func(attribute string, from, to float64, start, end int) svgAnimate {
		return svgAnimate{
			AttributeType: "XML",
			Begin:         seconds(start, tempo),
			Dur:           seconds(end-start, tempo),
			AttributeName: attribute,
			From:          decimal(from),
			To:            decimal(to),
			Fill:          "freeze",
		}
	}

	for _, c := range s.PositionChanges() {
		el.Animates = append(el.Animates,
			animate(xAttr, c.From().X, c.To().X, c.Start(), c.End()),
			animate(yAttr, c.From().Y, c.To().Y, c.Start(), c.End()))
	}
	// Resizes compound, so each one animates from where the previous left off.
	for _, c := range s.SizeChanges() {
		to := size.Scale(c.Factor())
		el.Animates = append(el.Animates,
			animate(wAttr, size.W, to.W, c.Start(), c.End()),
			animate(hAttr, size.H, to.H, c.Start(), c.End()))
		size = to
	}
	for _, c := range s.ColorChanges() {
		el.Sets = append(el.Sets, svgSet{
			AttributeType: "CSS",
			AttributeName: "fill",
			To:            rgb(c.Color()),
			Begin:         seconds(c.At(), tempo),
		})
	}
	return el
}
