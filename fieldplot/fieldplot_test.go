package fieldplot

import (
	"fmt"
	"os"
	"testing"

	molden "github.com/rmera/gomolden"
	"github.com/rmera/gomolden/grid"
	"github.com/rmera/gomolden/tabulate"
	"gonum.org/v1/plot/vg"
)

//tabulates both MOs of the test molecule on a 5x5x5 cube spanning [-2,2].
func h2Field() (*tabulate.Field, error) {
	mol, err := molden.Read("../test/h2.molden", false)
	if err != nil {
		return nil, err
	}
	ax := []float64{-2, -1, 0, 1, 2}
	g, err := grid.NewCartesian(ax, ax, ax)
	if err != nil {
		return nil, err
	}
	tab, err := tabulate.New(mol)
	if err != nil {
		return nil, err
	}
	tab.SetGrid(g)
	return tab.Tabulate()
}

//TestSlice cuts the z=0 plane out of the tabulated cube and checks every
//value against the field it came from.
func TestSlice(Te *testing.T) {
	f, err := h2Field()
	if err != nil {
		fmt.Println("There was an error!", err.Error())
		Te.Error(err)
		return
	}
	sd, err := Slice(f, 0, 2, 0.05)
	if err != nil {
		Te.Error(err)
		return
	}
	axis, at := sd.Axis()
	if axis != 2 || at != 0 {
		Te.Error(fmt.Errorf("asked for the plane nearest z=0.05, got axis %d at %v", axis, at))
	}
	c, r := sd.Dims()
	if c != 5 || r != 5 {
		Te.Error(fmt.Errorf("wrong slice size %dx%d", c, r))
		return
	}
	g := f.Grid()
	for ci := 0; ci < c; ci++ {
		for ri := 0; ri < r; ri++ {
			want := f.Values().At(g.FlatIndex(ci, ri, 2), 0)
			if sd.Z(ci, ri) != want {
				Te.Error(fmt.Errorf("slice value (%d,%d) is %v, wanted %v", ci, ri, sd.Z(ci, ri), want))
			}
		}
	}
	if sd.Min() != -sd.Max() || sd.Max() != sd.MaxAbs() {
		Te.Error(fmt.Errorf("color range not symmetric: %v %v", sd.Min(), sd.Max()))
	}
	if sd.MaxAbs() <= 0 {
		Te.Error(fmt.Errorf("the HOMO has no amplitude on the z=0 plane"))
	}
	if sd.X(0) != -2 || sd.Y(4) != 2 {
		Te.Error(fmt.Errorf("wrong in-plane axes: %v %v", sd.X(0), sd.Y(4)))
	}
	//a coordinate beyond the grid snaps to the outermost plane
	sd, err = Slice(f, 0, 0, -7.5)
	if err != nil {
		Te.Error(err)
		return
	}
	if _, at = sd.Axis(); at != -2 {
		Te.Error(fmt.Errorf("out-of-range coordinate snapped to %v, wanted -2", at))
	}
}

//TestSaveImages writes a heat map and a contour plot of the HOMO to the
//test directory and makes sure files actually land there.
func TestSaveImages(Te *testing.T) {
	f, err := h2Field()
	if err != nil {
		Te.Error(err)
		return
	}
	sd, err := Slice(f, 0, 1, 0)
	if err != nil {
		Te.Error(err)
		return
	}
	if err = Heat(sd, "h2 HOMO, y=0", "../test/h2_homo.png"); err != nil {
		fmt.Println("There was an error!", err.Error())
		Te.Error(err)
	}
	if err = Contours(sd, nil, "h2 HOMO, y=0", "../test/h2_homo_contours.svg"); err != nil {
		Te.Error(err)
	}
	for _, name := range []string{"../test/h2_homo.png", "../test/h2_homo_contours.svg"} {
		st, err := os.Stat(name)
		if err != nil {
			Te.Error(err)
			continue
		}
		if st.Size() == 0 {
			Te.Error(fmt.Errorf("%s came out empty", name))
		}
	}
	fmt.Println("images written!")
}

//TestSliceErrors covers the refusals: spherical grids, bad axes and bad
//columns.
func TestSliceErrors(Te *testing.T) {
	mol, err := molden.Read("../test/h2.molden", false)
	if err != nil {
		Te.Error(err)
		return
	}
	sg, err := grid.NewSpherical([]float64{0.5, 1}, []float64{0.5, 1.5}, []float64{0, 3})
	if err != nil {
		Te.Error(err)
		return
	}
	tab, err := tabulate.New(mol)
	if err != nil {
		Te.Error(err)
		return
	}
	tab.SetGrid(sg)
	f, err := tab.Tabulate(0)
	if err != nil {
		Te.Error(err)
		return
	}
	_, err = Slice(f, 0, 2, 0)
	if _, ok := err.(Error); !ok {
		Te.Error(fmt.Errorf("slicing a spherical field should fail with the package Error, got %v", err))
	}
	cf, err := h2Field()
	if err != nil {
		Te.Error(err)
		return
	}
	if _, err = Slice(cf, 0, 3, 0); err == nil {
		Te.Error(fmt.Errorf("axis 3 accepted"))
	}
	if _, err = Slice(cf, 5, 0, 0); err == nil {
		Te.Error(fmt.Errorf("column 5 of a 2-column field accepted"))
	}
}

//TestPlotOptions checks the defaults and the get/set behavior.
func TestPlotOptions(Te *testing.T) {
	o := DefaultOptions()
	if o.Width() != 14*vg.Centimeter || o.Height() != 12*vg.Centimeter || o.Colors() != 255 {
		Te.Error(fmt.Errorf("wrong defaults: %v %v %d", o.Width(), o.Height(), o.Colors()))
	}
	if prev := o.Colors(101); prev != 255 {
		Te.Error(fmt.Errorf("setter returned %d, wanted the previous 255", prev))
	}
	if o.Colors() != 101 {
		Te.Error(fmt.Errorf("color count not set"))
	}
	o.Colors(1) //a one-color map is no map at all, must be ignored
	if o.Colors() != 101 {
		Te.Error(fmt.Errorf("invalid color count accepted"))
	}
	o.Width(-3 * vg.Centimeter)
	if o.Width() != 14*vg.Centimeter {
		Te.Error(fmt.Errorf("negative width accepted"))
	}
}
