package deck

import (
	"strings"

	"google.golang.org/api/slides/v1"

	"github.com/standardbeagle/slidegen/internal/color"
)

const unitPT = "PT"

// Box is a text box geometry in points.
type Box struct {
	Width, Height float64
	X, Y          float64
}

// Fixed text box geometry.
var (
	BlankTitleBox     = Box{Width: 600, Height: 80, X: 50, Y: 50}
	BlankContentBox   = Box{Width: 600, Height: 300, X: 50, Y: 140}
	CoverTitleBox     = Box{Width: 600, Height: 100, X: 50, Y: 100}
	BrandedTitleBox   = Box{Width: 500, Height: 60, X: 50, Y: 50}
	BrandedContentBox = Box{Width: 500, Height: 200, X: 50, Y: 120}
)

// TextStyle is the subset of text styling the engine writes.
type TextStyle struct {
	SizePT     float64
	Bold       bool
	FontFamily string
	// Color is a hex code; empty leaves the color alone.
	Color string
}

func createBlankSlide() *slides.Request {
	return &slides.Request{
		CreateSlide: &slides.CreateSlideRequest{
			SlideLayoutReference: &slides.LayoutReference{PredefinedLayout: "BLANK"},
		},
	}
}

func createTextBox(objectID, pageID string, box Box) *slides.Request {
	return &slides.Request{
		CreateShape: &slides.CreateShapeRequest{
			ObjectId:  objectID,
			ShapeType: "TEXT_BOX",
			ElementProperties: &slides.PageElementProperties{
				PageObjectId: pageID,
				Size: &slides.Size{
					Width:  &slides.Dimension{Magnitude: box.Width, Unit: unitPT},
					Height: &slides.Dimension{Magnitude: box.Height, Unit: unitPT},
				},
				Transform: &slides.AffineTransform{
					ScaleX:     1,
					ScaleY:     1,
					TranslateX: box.X,
					TranslateY: box.Y,
					Unit:       unitPT,
				},
			},
		},
	}
}

func insertText(objectID, text string) *slides.Request {
	return &slides.Request{
		InsertText: &slides.InsertTextRequest{
			ObjectId: objectID,
			Text:     text,
		},
	}
}

// updateTextStyle only names the fields that are set, in fontSize,
// foregroundColor, fontFamily, bold order.
func updateTextStyle(objectID string, st TextStyle) *slides.Request {
	style := &slides.TextStyle{}
	var fields []string

	if st.SizePT > 0 {
		style.FontSize = &slides.Dimension{Magnitude: st.SizePT, Unit: unitPT}
		fields = append(fields, "fontSize")
	}
	if st.Color != "" {
		style.ForegroundColor = &slides.OptionalColor{OpaqueColor: opaque(st.Color)}
		fields = append(fields, "foregroundColor")
	}
	if st.FontFamily != "" {
		style.FontFamily = st.FontFamily
		fields = append(fields, "fontFamily")
	}
	if st.Bold {
		style.Bold = true
		fields = append(fields, "bold")
	}

	return &slides.Request{
		UpdateTextStyle: &slides.UpdateTextStyleRequest{
			ObjectId: objectID,
			Style:    style,
			Fields:   strings.Join(fields, ","),
		},
	}
}

// textBox is the create, insert, style triple for one box.
func textBox(objectID, pageID, text string, box Box, st TextStyle) []*slides.Request {
	return []*slides.Request{
		createTextBox(objectID, pageID, box),
		insertText(objectID, text),
		updateTextStyle(objectID, st),
	}
}

func duplicatePage(sourceID, newID string) *slides.Request {
	return &slides.Request{
		DuplicateObject: &slides.DuplicateObjectRequest{
			ObjectId:  sourceID,
			ObjectIds: map[string]string{sourceID: newID},
		},
	}
}

func moveSlides(ids []string, index int) *slides.Request {
	return &slides.Request{
		UpdateSlidesPosition: &slides.UpdateSlidesPositionRequest{
			SlideObjectIds:  ids,
			InsertionIndex:  int64(index),
			ForceSendFields: []string{"InsertionIndex"},
		},
	}
}

func deleteObject(id string) *slides.Request {
	return &slides.Request{
		DeleteObject: &slides.DeleteObjectRequest{ObjectId: id},
	}
}

// replaceText substitutes token case-sensitively on one page only.
func replaceText(pageID, token, replacement string) *slides.Request {
	return &slides.Request{
		ReplaceAllText: &slides.ReplaceAllTextRequest{
			ContainsText: &slides.SubstringMatchCriteria{
				Text:      token,
				MatchCase: true,
			},
			ReplaceText:     replacement,
			PageObjectIds:   []string{pageID},
			ForceSendFields: []string{"ReplaceText"},
		},
	}
}

func pageBackground(pageID, hex string) *slides.Request {
	return &slides.Request{
		UpdatePageProperties: &slides.UpdatePagePropertiesRequest{
			ObjectId: pageID,
			PageProperties: &slides.PageProperties{
				PageBackgroundFill: &slides.PageBackgroundFill{
					SolidFill: &slides.SolidFill{Color: opaque(hex)},
				},
			},
			Fields: "pageBackgroundFill.solidFill.color",
		},
	}
}

// opaque converts hex to a Slides color; invalid input becomes white.
func opaque(hex string) *slides.OpaqueColor {
	rgb, ok := color.HexToRGB(hex)
	if !ok {
		return &slides.OpaqueColor{RgbColor: &slides.RgbColor{Red: 1, Green: 1, Blue: 1}}
	}
	r, g, b := rgb.Fractions()
	return &slides.OpaqueColor{
		RgbColor: &slides.RgbColor{
			Red:             r,
			Green:           g,
			Blue:            b,
			ForceSendFields: []string{"Red", "Green", "Blue"},
		},
	}
}
