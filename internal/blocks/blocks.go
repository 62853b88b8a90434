// Package blocks is the catalogue of builtin Scratch blocks the language
// exposes as statements (`move 10;`) and reporters (`random(1, 6)`).
package blocks

type InputKind uint8

const (
	InputNumber    InputKind = iota // [1,[4,"n"]]
	InputText                       // [1,[10,"s"]]
	InputBool                       // [2,id]
	InputBroadcast                  // [1,[11,name,id]]
	InputList                       // argument must name a list; lowered as the LIST field
)

type Input struct {
	Name string
	Kind InputKind
}

type Field struct {
	Name  string
	Value string
}

// Menu is a shadow block plugged into Input, e.g. the clone target menu.
type Menu struct {
	Input  string
	Opcode string
	Field  Field
}

// Block describes one builtin. Inputs are ordered: argument i feeds Inputs[i].
type Block struct {
	Name   string
	Opcode string
	Inputs []Input
	Fields []Field
	Menu   *Menu
	// StageFields replaces Fields when the block is lowered on the stage.
	StageFields []Field
	// Mutation is copied verbatim into the node, control_stop needs it.
	Mutation map[string]string
	// ActorOnly blocks are rejected on the stage.
	ActorOnly bool
	// Yields marks blocks that pause the running script; a function that
	// reaches one cannot run without screen refresh.
	Yields bool
}

func (b *Block) Arity() int { return len(b.Inputs) }

func num(name string) Input  { return Input{Name: name, Kind: InputNumber} }
func text(name string) Input { return Input{Name: name, Kind: InputText} }

func stopMutation(hasNext bool) map[string]string {
	next := "false"
	if hasNext {
		next = "true"
	}
	return map[string]string{"tagName": "mutation", "hasnext": next}
}

var statements = []Block{
	// motion
	{Name: "move", Opcode: "motion_movesteps", Inputs: []Input{num("STEPS")}, ActorOnly: true},
	{Name: "turn_left", Opcode: "motion_turnleft", Inputs: []Input{num("DEGREES")}, ActorOnly: true},
	{Name: "turn_right", Opcode: "motion_turnright", Inputs: []Input{num("DEGREES")}, ActorOnly: true},
	{Name: "goto", Opcode: "motion_gotoxy", Inputs: []Input{num("X"), num("Y")}, ActorOnly: true},
	{Name: "glide", Opcode: "motion_glidesecstoxy", Inputs: []Input{num("SECS"), num("X"), num("Y")}, ActorOnly: true, Yields: true},
	{Name: "set_x", Opcode: "motion_setx", Inputs: []Input{num("X")}, ActorOnly: true},
	{Name: "set_y", Opcode: "motion_sety", Inputs: []Input{num("Y")}, ActorOnly: true},
	{Name: "change_x", Opcode: "motion_changexby", Inputs: []Input{num("DX")}, ActorOnly: true},
	{Name: "change_y", Opcode: "motion_changeyby", Inputs: []Input{num("DY")}, ActorOnly: true},
	{Name: "point_in_direction", Opcode: "motion_pointindirection", Inputs: []Input{num("DIRECTION")}, ActorOnly: true},

	// looks
	{Name: "say", Opcode: "looks_say", Inputs: []Input{text("MESSAGE")}, ActorOnly: true},
	{Name: "say_for_secs", Opcode: "looks_sayforsecs", Inputs: []Input{text("MESSAGE"), num("SECS")}, ActorOnly: true, Yields: true},
	{Name: "think", Opcode: "looks_think", Inputs: []Input{text("MESSAGE")}, ActorOnly: true},
	{Name: "think_for_secs", Opcode: "looks_thinkforsecs", Inputs: []Input{text("MESSAGE"), num("SECS")}, ActorOnly: true, Yields: true},
	{Name: "show", Opcode: "looks_show", ActorOnly: true},
	{Name: "hide", Opcode: "looks_hide", ActorOnly: true},
	{Name: "next_costume", Opcode: "looks_nextcostume", ActorOnly: true},
	{Name: "next_backdrop", Opcode: "looks_nextbackdrop"},
	{Name: "set_size", Opcode: "looks_setsizeto", Inputs: []Input{num("SIZE")}, ActorOnly: true},
	{Name: "change_size", Opcode: "looks_changesizeby", Inputs: []Input{num("CHANGE")}, ActorOnly: true},
	{Name: "clear_effects", Opcode: "looks_cleargraphiceffects"},

	// control
	{Name: "wait", Opcode: "control_wait", Inputs: []Input{num("DURATION")}, Yields: true},
	{Name: "wait_until", Opcode: "control_wait_until", Inputs: []Input{{Name: "CONDITION", Kind: InputBool}}, Yields: true},
	{Name: "stop_all", Opcode: "control_stop", Fields: []Field{{"STOP_OPTION", "all"}}, Mutation: stopMutation(false)},
	{Name: "stop_this_script", Opcode: "control_stop", Fields: []Field{{"STOP_OPTION", "this script"}}, Mutation: stopMutation(false)},
	{
		Name: "stop_other_scripts", Opcode: "control_stop",
		Fields:      []Field{{"STOP_OPTION", "other scripts in sprite"}},
		StageFields: []Field{{"STOP_OPTION", "other scripts in stage"}},
		Mutation:    stopMutation(true),
	},
	{Name: "delete_this_clone", Opcode: "control_delete_this_clone", ActorOnly: true},
	{
		Name: "create_clone", Opcode: "control_create_clone_of",
		Menu:      &Menu{Input: "CLONE_OPTION", Opcode: "control_create_clone_of_menu", Field: Field{"CLONE_OPTION", "_myself_"}},
		ActorOnly: true,
	},

	// events
	{Name: "broadcast", Opcode: "event_broadcast", Inputs: []Input{{Name: "BROADCAST_INPUT", Kind: InputBroadcast}}},
	{Name: "broadcast_and_wait", Opcode: "event_broadcastandwait", Inputs: []Input{{Name: "BROADCAST_INPUT", Kind: InputBroadcast}}, Yields: true},

	// sensing
	{Name: "ask", Opcode: "sensing_askandwait", Inputs: []Input{text("QUESTION")}, Yields: true},
	{Name: "reset_timer", Opcode: "sensing_resettimer"},
}

func mathop(name, op string) Block {
	return Block{Name: name, Opcode: "operator_mathop", Inputs: []Input{num("NUM")}, Fields: []Field{{"OPERATOR", op}}}
}

var reporters = []Block{
	{Name: "random", Opcode: "operator_random", Inputs: []Input{num("FROM"), num("TO")}},
	{Name: "round", Opcode: "operator_round", Inputs: []Input{num("NUM")}},
	mathop("abs", "abs"),
	mathop("floor", "floor"),
	mathop("ceil", "ceiling"),
	mathop("sqrt", "sqrt"),
	mathop("sin", "sin"),
	mathop("cos", "cos"),
	mathop("tan", "tan"),
	mathop("asin", "asin"),
	mathop("acos", "acos"),
	mathop("atan", "atan"),
	mathop("ln", "ln"),
	mathop("log", "log"),
	mathop("antiln", "e ^"),
	mathop("antilog", "10 ^"),
	{Name: "length", Opcode: "operator_length", Inputs: []Input{text("STRING")}},
	{Name: "letter", Opcode: "operator_letter_of", Inputs: []Input{num("LETTER"), text("STRING")}},
	{Name: "contains", Opcode: "operator_contains", Inputs: []Input{text("STRING1"), text("STRING2")}},
	{Name: "list_length", Opcode: "data_lengthoflist", Inputs: []Input{{Name: "LIST", Kind: InputList}}},
	{Name: "list_contains", Opcode: "data_listcontainsitem", Inputs: []Input{{Name: "LIST", Kind: InputList}, text("ITEM")}},
	{Name: "list_index", Opcode: "data_itemnumoflist", Inputs: []Input{{Name: "LIST", Kind: InputList}, text("ITEM")}},
	{Name: "answer", Opcode: "sensing_answer"},
	{Name: "timer", Opcode: "sensing_timer"},
	{Name: "mouse_x", Opcode: "sensing_mousex"},
	{Name: "mouse_y", Opcode: "sensing_mousey"},
	{Name: "x_position", Opcode: "motion_xposition", ActorOnly: true},
	{Name: "y_position", Opcode: "motion_yposition", ActorOnly: true},
	{Name: "direction", Opcode: "motion_direction", ActorOnly: true},
	{Name: "size", Opcode: "looks_size", Fields: []Field{{"NUMBER_NAME", "number"}}, ActorOnly: true},
}

var (
	statementIndex = index(statements)
	reporterIndex  = index(reporters)
)

func index(list []Block) map[string]*Block {
	m := make(map[string]*Block, len(list))
	for i := range list {
		m[list[i].Name] = &list[i]
	}
	return m
}

// Statement looks up a builtin statement block by its source name.
func Statement(name string) (*Block, bool) {
	b, ok := statementIndex[name]
	return b, ok
}

// Reporter looks up a builtin reporter by its source name.
func Reporter(name string) (*Block, bool) {
	b, ok := reporterIndex[name]
	return b, ok
}

// IsBuiltin reports whether name is taken by any builtin block.
func IsBuiltin(name string) bool {
	_, s := statementIndex[name]
	_, r := reporterIndex[name]
	return s || r
}

// Statements returns the statement catalogue in declaration order. Read-only.
func Statements() []Block { return statements }

// Reporters returns the reporter catalogue in declaration order. Read-only.
func Reporters() []Block { return reporters }
