package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/lsalmela/soitin"
	"github.com/lsalmela/soitin/graph"
	"github.com/lsalmela/soitin/notation"
	"github.com/lsalmela/soitin/player"
)

var quotedNotation = regexp.MustCompile(`"([^"]*)"`)

// session interprets command lines, keeping the notation text saved by the
// latest quoted line so PLAY can recompile it.
type session struct {
	reg           *soitin.Registry
	comp          *notation.Compiler
	g             *graph.Graph
	player        *player.Player
	out           io.Writer
	savedNotation string
}

// processLine runs a single command line. Errors are recoverable: they are
// printed and the session continues with state unchanged.
func (s *session) processLine(raw string) {
	setCommand := strings.HasPrefix(raw, "SET")
	playCommand := strings.HasPrefix(raw, "PLAY")
	pauseCommand := strings.HasPrefix(raw, "PAUSE")
	printCommand := strings.HasPrefix(raw, "PRINT")
	saveCommand := strings.HasPrefix(raw, "SAVE")
	loadCommand := strings.HasPrefix(raw, "LOAD")

	line := strings.ToLower(raw)
	switch {
	case setCommand:
		if err := soitin.ExecuteSet(s.reg, line); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	case playCommand:
		err := s.player.Sync(func() error {
			s.g.Clear()
			return s.comp.CompileLine(s.savedNotation)
		})
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return
		}
		s.printGraphStructure()
	case pauseCommand:
		s.player.Sync(func() error {
			s.g.Clear()
			return nil
		})
	case printCommand:
		if strings.Contains(line, "v") {
			s.printBindingsDetailed()
		} else {
			s.printBindings()
		}
	case saveCommand:
		if err := s.saveBindings(strings.Fields(line)); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	case loadCommand:
		if err := s.loadBindings(strings.Fields(line)); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	default:
		if m := quotedNotation.FindStringSubmatch(line); m != nil {
			s.savedNotation = m[1]
		}
	}
}

func (s *session) saveBindings(fields []string) error {
	if len(fields) < 2 {
		return errors.New("usage: SAVE <file>")
	}
	f, err := os.Create(fields[1])
	if err != nil {
		return err
	}
	defer f.Close()
	return soitin.SaveBindings(s.reg, f)
}

func (s *session) loadBindings(fields []string) error {
	if len(fields) < 2 {
		return errors.New("usage: LOAD <file>")
	}
	f, err := os.Open(fields[1])
	if err != nil {
		return err
	}
	defer f.Close()
	return soitin.LoadBindings(s.reg, f)
}

func (s *session) printBindings() {
	letters := s.reg.BoundLetters()
	if len(letters) == 0 {
		fmt.Fprintln(s.out, "No letters are currently bound.")
		return
	}
	fmt.Fprintln(s.out, "Current letter bindings:")
	fmt.Fprintln(s.out, "------------------------")
	for _, letter := range letters {
		info, err := s.reg.Describe(letter)
		if err != nil {
			continue
		}
		fmt.Fprintf(s.out, "  '%c' -> %s\n", letter, info.TypeName)
	}
	fmt.Fprintln(s.out, "------------------------")
}

func (s *session) printBindingsDetailed() {
	letters := s.reg.BoundLetters()
	if len(letters) == 0 {
		fmt.Fprintln(s.out, "No letters are currently bound.")
		return
	}
	fmt.Fprintln(s.out, "Current letter bindings with parameters:")
	fmt.Fprintln(s.out, "----------------------------------------")
	for _, letter := range letters {
		info, err := s.reg.Describe(letter)
		if err != nil {
			continue
		}
		fmt.Fprintf(s.out, "Letter '%c': %s\n", letter, info.TypeName)
		for _, p := range info.Params {
			fmt.Fprintf(s.out, "    - %s = %s (default: %s)\n", p.Name, p.Value.Text(), p.Default.Text())
		}
		fmt.Fprintln(s.out)
	}
	fmt.Fprintln(s.out, "----------------------------------------")
}

func (s *session) printGraphStructure() {
	fmt.Fprintln(s.out, "=== Nodes ===")
	for _, n := range s.g.Nodes() {
		fmt.Fprintf(s.out, "Node ID: %d, Processor: %s\n", n.ID, n.Label())
	}
	fmt.Fprintln(s.out, "=== Connections ===")
	for _, c := range s.g.Connections() {
		fmt.Fprintf(s.out, "From Node %d [ch %s] -> Node %d [ch %s]\n", c.From, c.FromCh, c.To, c.ToCh)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "| Hello! This is interactive mode. Commands:")
	fmt.Fprintln(out, "|   Bind a letter:")
	fmt.Fprintln(out, "|       SET <letter> <type> <parameter> <value>...  <- specify type and parameters")
	fmt.Fprintln(out, "|           e.g.: SET a sin note 66")
	fmt.Fprintln(out, "|           e.g.: SET a delay time 0.5 feedback 0.4")
	fmt.Fprintln(out, "|       SET <letter> <type>                         <- type only, default parameters")
	fmt.Fprintln(out, "|   Generate a graph:")
	fmt.Fprintln(out, "|       \"h (el lo)\"                               <- saves the notation for PLAY.")
	fmt.Fprintln(out, "|                                                      Parenthesis groups need a pulse")
	fmt.Fprintln(out, "|                                                      generator: SET x midi, then \"x (a b)\"")
	fmt.Fprintln(out, "|   Play/Pause your graph:")
	fmt.Fprintln(out, "|       PLAY")
	fmt.Fprintln(out, "|       PAUSE")
	fmt.Fprintln(out, "|   Print your current letter : type bindings:")
	fmt.Fprintln(out, "|       PRINT")
	fmt.Fprintln(out, "|       PRINT v                                     <- includes parameters and defaults")
	fmt.Fprintln(out, "|   Save/restore bindings:")
	fmt.Fprintln(out, "|       SAVE <file>")
	fmt.Fprintln(out, "|       LOAD <file>")
	fmt.Fprintln(out, "|   EXIT to quit.")
}

// interactiveMode reads commands from stdin with a prompt until EXIT or EOF.
func (s *session) interactiveMode() {
	printHelp(s.out)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(s.out, "cmd> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "EXIT" {
			return
		}
		s.processLine(line)
	}
}

// fileMode runs the commands from a script file, then keeps the audio going
// and waits for EXIT on stdin (unless the script itself contained EXIT).
func (s *session) fileMode(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open command file %q: %w", filename, err)
	}
	defer f.Close()

	fmt.Fprintf(s.out, "Running commands from %q ...\n", filename)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "EXIT" || line == "exit" {
			fmt.Fprintln(s.out, "'EXIT' directive found in file - stopping.")
			return nil
		}
		s.processLine(line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Finished processing %q. Type EXIT to stop.\n", filename)
	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		if stdin.Text() == "EXIT" {
			return nil
		}
	}
	return nil
}
