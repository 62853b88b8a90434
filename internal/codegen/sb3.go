package codegen

// Document is project.json.
type Document struct {
	Targets    []*Target `json:"targets"`
	Monitors   []any     `json:"monitors"`
	Extensions []string  `json:"extensions"`
	Meta       Meta      `json:"meta"`
}

type Meta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

// Target is the stage or one sprite. Exactly one of the embedded field
// groups is set; encoding/json skips a nil embedded pointer.
type Target struct {
	IsStage        bool               `json:"isStage"`
	Name           string             `json:"name"`
	Variables      map[string][2]any  `json:"variables"`
	Lists          map[string][2]any  `json:"lists"`
	Broadcasts     map[string]string  `json:"broadcasts"`
	Blocks         map[string]*Node   `json:"blocks"`
	Comments       map[string]Comment `json:"comments"`
	CurrentCostume int                `json:"currentCostume"`
	Costumes       []Costume          `json:"costumes"`
	Sounds         []any              `json:"sounds"`
	Volume         int                `json:"volume"`
	LayerOrder     int                `json:"layerOrder"`
	*StageFields
	*ActorFields
}

type StageFields struct {
	Tempo                int     `json:"tempo"`
	VideoTransparency    int     `json:"videoTransparency"`
	VideoState           string  `json:"videoState"`
	TextToSpeechLanguage *string `json:"textToSpeechLanguage"`
}

type ActorFields struct {
	Visible       bool    `json:"visible"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Size          float64 `json:"size"`
	Direction     float64 `json:"direction"`
	Draggable     bool    `json:"draggable"`
	RotationStyle string  `json:"rotationStyle"`
}

func newTarget(name string, isStage bool, layer int) *Target {
	t := &Target{
		IsStage:    isStage,
		Name:       name,
		Variables:  map[string][2]any{},
		Lists:      map[string][2]any{},
		Broadcasts: map[string]string{},
		Blocks:     map[string]*Node{},
		Comments:   map[string]Comment{},
		Sounds:     []any{},
		Volume:     100,
		LayerOrder: layer,
	}
	if isStage {
		t.StageFields = &StageFields{Tempo: 60, VideoTransparency: 50, VideoState: "on"}
	} else {
		t.ActorFields = &ActorFields{Visible: true, Size: 100, Direction: 90, RotationStyle: "all around"}
	}
	return t
}

// Node is one block. Next and Parent are nil at the ends of a stack.
type Node struct {
	Opcode   string           `json:"opcode"`
	Next     *string          `json:"next"`
	Parent   *string          `json:"parent"`
	Inputs   map[string][]any `json:"inputs"`
	Fields   map[string][]any `json:"fields"`
	Shadow   bool             `json:"shadow"`
	TopLevel bool             `json:"topLevel"`
	X        *int             `json:"x,omitempty"`
	Y        *int             `json:"y,omitempty"`
	Mutation map[string]any   `json:"mutation,omitempty"`
}

type Comment struct {
	BlockID   *string `json:"blockId"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Minimized bool    `json:"minimized"`
	Text      string  `json:"text"`
}

type Costume struct {
	Name             string `json:"name"`
	BitmapResolution int    `json:"bitmapResolution"`
	DataFormat       string `json:"dataFormat"`
	AssetID          string `json:"assetId"`
	MD5Ext           string `json:"md5ext"`
	RotationCenterX  int    `json:"rotationCenterX"`
	RotationCenterY  int    `json:"rotationCenterY"`
}

// Input shadow types used inside input arrays.
const (
	shadowSame     = 1 // input holds its own shadow
	shadowNone     = 2 // block without a shadow (booleans, substacks)
	shadowObscured = 3 // block covering a shadow

	primNumber    = 4
	primText      = 10
	primBroadcast = 11
	primVariable  = 12
	primList      = 13
)
