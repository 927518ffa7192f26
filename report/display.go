package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"texlerc/common"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// displayErrorMessage prints a standard Go error.
func displayErrorMessage(w io.Writer, tag string, err error) {
	fmt.Fprint(w, ErrorStyleBG.Sprint(tag))
	fmt.Fprintln(w, ErrorColorFG.Sprint(" "+err.Error()))
}

// displayInfoMessage prints an informational message.
func displayInfoMessage(w io.Writer, tag, msg string) {
	fmt.Fprint(w, InfoStyleBG.Sprint(tag))
	fmt.Fprintln(w, InfoColorFG.Sprint(" "+msg))
}

// displayGenMessage displays a generation message: a banner naming the kind of
// message and the offending construct followed by the message itself.
func displayGenMessage(w io.Writer, gm *GenMessage) {
	fmt.Fprint(w, "\n-- ")
	kindStr := KindName(gm.Kind)
	if gm.IsError {
		kindStr += " Error"
		fmt.Fprint(w, ErrorStyleBG.Sprint(kindStr))
	} else {
		kindStr += " Warning"
		fmt.Fprint(w, WarnStyleBG.Sprint(kindStr))
	}

	fmt.Fprint(w, " ")

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(gm.Name) - len(kindStr) - 1
	if dashCount < 3 {
		dashCount = 3
	}

	fmt.Fprint(w, strings.Repeat("-", dashCount)+" ")
	fmt.Fprintln(w, InfoColorFG.Sprint(gm.Name))
	fmt.Fprintln(w, gm.Message)
}

const icePostlude = `
This is likely a bug in the generator.
Please open an issue with the input document attached.`

// displayFatalError displays a fatal error or an ICE.
func displayFatalError(w io.Writer, msg string, ice bool) {
	fmt.Fprint(w, "\n")
	if ice {
		fmt.Fprint(w, ErrorStyleBG.Sprint("Internal Compiler Error "))
		fmt.Fprintln(w, ErrorColorFG.Sprint(msg))
		fmt.Fprintln(w, InfoColorFG.Sprint(icePostlude))
	} else {
		fmt.Fprint(w, ErrorStyleBG.Sprint("Fatal Error "))
		fmt.Fprintln(w, ErrorColorFG.Sprint(msg))
	}
}

// -----------------------------------------------------------------------------

// displayHeader displays the tool information before starting.
func displayHeader(w io.Writer, input string) {
	fmt.Fprint(w, "texlerc ")
	fmt.Fprint(w, InfoColorFG.Sprint("v"+common.TexlerVersion))
	fmt.Fprint(w, " -- input: ")
	fmt.Fprintln(w, InfoColorFG.Sprint(input))
}

const maxPhaseLength = len("Generating")

var (
	phaseDonePrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseFailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}
)

// phaseDisplay is a running phase.
type phaseDisplay struct {
	w         io.Writer
	name      string
	startTime time.Time
}

func beginPhase(w io.Writer, name string) *phaseDisplay {
	fmt.Fprintln(w, InfoColorFG.Sprint(name+"..."))
	return &phaseDisplay{w: w, name: name, startTime: time.Now()}
}

func (pd *phaseDisplay) end(success bool) {
	text := pd.name + strings.Repeat(" ", pad(pd.name))

	if success {
		fmt.Fprint(pd.w, phaseDonePrinter.Sprint(text+fmt.Sprintf("(%.3fs)", time.Since(pd.startTime).Seconds())))
	} else {
		fmt.Fprint(pd.w, phaseFailPrinter.Sprint(text))
	}

	fmt.Fprintln(pd.w)
}

func pad(name string) int {
	if n := maxPhaseLength - len(name) + 2; n > 0 {
		return n
	}

	return 1
}

// displayFinished displays the closing message of a run.
func displayFinished(w io.Writer, errorCount, warnCount int, outputPath string, elapsed time.Duration) {
	fmt.Fprintln(w)
	if errorCount == 0 {
		fmt.Fprint(w, SuccessStyleBG.Sprint("Generation Succeeded"))
		fmt.Fprintf(w, " (%.3fs) ", elapsed.Seconds())
		fmt.Fprintln(w, InfoColorFG.Sprint(outputPath))
	} else {
		fmt.Fprint(w, ErrorStyleBG.Sprint("Generation Failed"))
		fmt.Fprintf(w, " %d error(s)", errorCount)
	}

	if warnCount > 0 {
		fmt.Fprint(w, ", ")
		fmt.Fprint(w, WarnColorFG.Sprintf("%d warning(s)", warnCount))
	}

	fmt.Fprintln(w)
}

// PrintErrorMessage prints a standard error to standard out.  It is used
// before a reporter exists, such as for command line errors.
func PrintErrorMessage(tag string, err error) {
	displayErrorMessage(os.Stdout, tag, err)
}

// PrintInfoMessage prints an informational message to standard out.
func PrintInfoMessage(tag, msg string) {
	displayInfoMessage(os.Stdout, tag, msg)
}
