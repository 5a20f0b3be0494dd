package models

// FrameLayer declares which asset is visually in front on the final
// composite. The renderer draws the front asset last.
type FrameLayer string

const (
	// LayerOverlay means the frame artwork sits in front of the photo.
	LayerOverlay FrameLayer = "overlay"
	// LayerBackdrop means the frame artwork is the background and the
	// photo is drawn on top of it.
	LayerBackdrop FrameLayer = "backdrop"
)

type AspectClass string

const (
	AspectSquare AspectClass = "square"
	AspectTall   AspectClass = "tall"
)

// FrameTemplate is a static decorative asset. Templates are defined at
// process start and never user-created.
type FrameTemplate struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	AssetName      string      `json:"asset_name"`
	IsCircularMask bool        `json:"is_circular_mask"`
	Aspect         AspectClass `json:"aspect"`
	Layer          FrameLayer  `json:"layer"`
}

// Frames is the catalog of available frame templates.
var Frames = []FrameTemplate{
	{
		ID:             "frame-1",
		Title:          "Classic",
		AssetName:      "frame-1.png",
		IsCircularMask: true,
		Aspect:         AspectSquare,
		Layer:          LayerOverlay,
	},
	{
		ID:             "frame-2",
		Title:          "Anniversary",
		AssetName:      "frame-2.png",
		IsCircularMask: false,
		Aspect:         AspectTall,
		Layer:          LayerOverlay,
	},
}

// FrameByID looks up a template in the catalog.
func FrameByID(id string) (FrameTemplate, bool) {
	for _, f := range Frames {
		if f.ID == id {
			return f, true
		}
	}
	return FrameTemplate{}, false
}
