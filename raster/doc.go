// Package raster draws polaroid compositions with the gg 2D library.
//
// A [Renderer] implements polaroid.Rasterizer. It lays out the print (border,
// padding, photo, wrapped caption), draws it on a software gg.Context and
// encodes the result as PNG or JPEG.
//
//	r, err := raster.New(raster.WithFontFile(polaroid.FamilyGeorgia, "/path/Georgia.ttf"))
//	if err != nil {
//	    return err
//	}
//	m := polaroid.NewManager(polaroid.WithRasterizer(r))
//
// Every allowed font family has an embedded Go font fallback, so a Renderer
// works without any font files installed.
package raster
