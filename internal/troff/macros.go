package troff

// Macro identifies a recognized request or man macro.
type Macro int

// Recognized macros.
const (
	MacroNone Macro = iota // text line
	MacroUnknown

	MacroTitle   // .TH
	MacroHead    // .SH
	MacroSubhead // .SS

	MacroBold   // .B
	MacroItalic // .I
	MacroRoman  // .R

	MacroBoldItalic  // .BI
	MacroItalicBold  // .IB
	MacroItalicRoman // .IR
	MacroRomanItalic // .RI
	MacroRomanBold   // .RB
	MacroBoldRoman   // .BR

	MacroSmall     // .SM
	MacroSmallBold // .SB

	MacroPara          // .PP .LP .P
	MacroIndent        // .RS
	MacroDedent        // .RE
	MacroIndented      // .TP
	MacroIndentedParam // .IP
	MacroHanging       // .HP
	MacroNoFill        // .nf .EX
	MacroFill          // .fi .EE

	MacroSpacer      // .sp
	MacroLineBreak   // .br
	MacroPageNumChar // .pc
	MacroIf          // .if

	MacroTableStart // .TS
	MacroTableEnd   // .TE
)

// commentPrefix starts a comment line.
const commentPrefix = `.\"`

// preprocessorPrefix starts the preprocessor declaration on a page's first line.
const preprocessorPrefix = `'\"`

// macroNames maps macro invocations to macros.
var macroNames = map[string]Macro{
	".TH": MacroTitle,
	".SH": MacroHead,
	".SS": MacroSubhead,

	".B": MacroBold,
	".I": MacroItalic,
	".R": MacroRoman,

	".BI": MacroBoldItalic,
	".IB": MacroItalicBold,
	".IR": MacroItalicRoman,
	".RI": MacroRomanItalic,
	".RB": MacroRomanBold,
	".BR": MacroBoldRoman,

	".SM": MacroSmall,
	".SB": MacroSmallBold,

	".PP": MacroPara,
	".LP": MacroPara,
	".P":  MacroPara,
	".RS": MacroIndent,
	".RE": MacroDedent,
	".TP": MacroIndented,
	".IP": MacroIndentedParam,
	".HP": MacroHanging,
	".nf": MacroNoFill,
	".EX": MacroNoFill,
	".fi": MacroFill,
	".EE": MacroFill,

	".sp": MacroSpacer,
	".br": MacroLineBreak,
	".pc": MacroPageNumChar,
	".if": MacroIf,

	".TS": MacroTableStart,
	".TE": MacroTableEnd,
}

// lookupMacro returns the macro for an invocation token.
func lookupMacro(name string) Macro {
	if m, ok := macroNames[name]; ok {
		return m
	}
	return MacroUnknown
}

// block is a top-level HTML container. Top-level blocks are mutually
// exclusive: opening one closes the current one.
type block string

const (
	blockNone    block = ""
	blockPara    block = "p"
	blockQuote   block = "blockquote"
	blockPre     block = "pre"
	blockDefList block = "dl"
)

// topMacros maps macros that end the current block to the block they open.
// .TP and .IP are handled separately: they only close a block that is not
// already a definition list.
var topMacros = map[Macro]block{
	MacroHead:    blockNone,
	MacroSubhead: blockNone,
	MacroPara:    blockPara,
	MacroIndent:  blockQuote,
	MacroDedent:  blockNone,
	MacroHanging: blockPara,
	MacroNoFill:  blockPre,
	MacroFill:    blockNone,
}

// Preprocessor is a troff preprocessor declared on a page's first line.
type Preprocessor string

// Known preprocessors.
const (
	PreprocessorEqn   Preprocessor = "geqn"
	PreprocessorRefer Preprocessor = "grefer"
	PreprocessorTbl   Preprocessor = "gtbl"
)

var preprocessors = map[rune]Preprocessor{
	'e': PreprocessorEqn,
	'r': PreprocessorRefer,
	't': PreprocessorTbl,
}
