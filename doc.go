// Package polaroid composes a photo and an editable caption into a
// printable "polaroid" picture.
//
// # Overview
//
// A [Manager] is the single source of truth for one editing session. It owns
// the source image, the frame dimensions, the caption text and the caption
// style, and derives a [RenderDescriptor] from them on demand.
//
//	m := polaroid.NewManager(polaroid.WithRasterizer(r))
//	if err := m.IngestImage(ctx, data); err != nil {
//	    return err
//	}
//	m.SetCaptionText("Summer 2024")
//	_ = m.SetCaptionStyle(polaroid.StyleUpdate{TextAlign: polaroid.Ptr("right")})
//	art, err := m.Export(ctx)
//
// # States
//
// A Manager starts in [StateEmpty]. The first successful [Manager.IngestImage]
// moves it to [StateComposing], where it stays for the rest of the session.
// Export is only possible while composing.
//
// # Capabilities
//
// Image decoding and rasterization are reached through the [Decoder] and
// [Rasterizer] interfaces. The default decoder understands PNG, JPEG, GIF,
// WebP, BMP and TIFF. The raster sub-package provides a Rasterizer built on
// github.com/gogpu/gg.
//
// # Validation
//
// Style and frame updates are partial: each provided field is validated on its
// own, invalid fields are rejected with [ErrInvalidStyleValue] or
// [ErrInvalidDimension], and valid fields of the same update still apply.
package polaroid
