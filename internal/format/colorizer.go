package format

// ScalarType classifies JSON scalars for colouring.
type ScalarType uint8

const (
	Null ScalarType = iota
	Boolean
	Number
	String
)

// A Colorizer surrounds keys and scalars with terminal colour codes.  A nil
// *Colorizer prints without colours.
type Colorizer struct {
	KeyColorCode     []byte
	ScalarColorCodes [4][]byte
	ResetCode        []byte
}

// StartKey outputs the colour code for a key.
func (c *Colorizer) StartKey(p Printer) {
	if c != nil {
		p.PrintBytes(c.KeyColorCode)
	}
}

// StartScalar outputs the colour code for a scalar of type t.
func (c *Colorizer) StartScalar(p Printer, t ScalarType) {
	if c != nil {
		p.PrintBytes(c.ScalarColorCodes[t])
	}
}

// End resets the colour.
func (c *Colorizer) End(p Printer) {
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}

// PrintKey outputs b in the key colour.
func (c *Colorizer) PrintKey(p Printer, b []byte) {
	c.StartKey(p)
	p.PrintBytes(b)
	c.End(p)
}

// PrintScalar outputs b in the colour for scalars of type t.
func (c *Colorizer) PrintScalar(p Printer, t ScalarType, b []byte) {
	c.StartScalar(p, t)
	p.PrintBytes(b)
	c.End(p)
}
