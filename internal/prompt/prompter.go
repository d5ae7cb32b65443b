package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	inputClosedMessageConstant       = "prompt input closed"
	lineTerminatorCharactersConstant = "\r\n"
	affirmativeShortAnswerConstant   = "y"
	affirmativeLongAnswerConstant    = "yes"
	negativeShortAnswerConstant      = "n"
	negativeLongAnswerConstant       = "no"
	choiceLineTemplateConstant       = "(%c) %s\n"
	choiceRetryMessageConstant       = "Please enter only letters from one of the options above, or a blank line to break the loop\n"
	integerRetryTemplateConstant     = "Please enter an integer between %d and %d\n"
	proceedRetryTemplateConstant     = "%c: %s\n"
	pauseMessageConstant             = "<Press enter/return to continue>\n"
	defaultListSeparatorConstant     = ","
	firstChoiceLetterConstant        = 'a'
	unselectedChoiceIndexConstant    = -1
)

// ErrInputClosed indicates the input ended before an answer was read.
var ErrInputClosed = errors.New(inputClosedMessageConstant)

// Prompter writes questions to an output and reads answers line by line.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPrompter constructs a prompter over the provided input and output.
func NewPrompter(input io.Reader, output io.Writer) *Prompter {
	if output == nil {
		output = io.Discard
	}
	return &Prompter{reader: bufio.NewReader(input), writer: output}
}

// IsInteractive reports whether the file is attached to a terminal.
func IsInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// String returns the next answer verbatim without its line terminator.
func (prompter *Prompter) String(prompt string) (string, error) {
	if writeError := prompter.write(prompt); writeError != nil {
		return "", writeError
	}
	return prompter.readLine()
}

// Bool asks until the answer is y, yes, n, no or blank. A blank answer yields defaultAnswer.
func (prompter *Prompter) Bool(prompt string, defaultAnswer bool) (bool, error) {
	for {
		answer, answerError := prompter.String(prompt)
		if answerError != nil {
			return false, answerError
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return defaultAnswer, nil
		case affirmativeShortAnswerConstant, affirmativeLongAnswerConstant:
			return true, nil
		case negativeShortAnswerConstant, negativeLongAnswerConstant:
			return false, nil
		}
	}
}

// Int asks until the answer is an integer within [minimum, maximum]. A blank answer yields defaultValue.
func (prompter *Prompter) Int(prompt string, minimum int, maximum int, defaultValue int) (int, error) {
	for {
		answer, answerError := prompter.String(prompt)
		if answerError != nil {
			return 0, answerError
		}
		trimmedAnswer := strings.TrimSpace(answer)
		if len(trimmedAnswer) == 0 {
			return defaultValue, nil
		}
		parsedValue, parseError := strconv.Atoi(trimmedAnswer)
		if parseError == nil && parsedValue >= minimum && parsedValue <= maximum {
			return parsedValue, nil
		}
		if writeError := prompter.write(fmt.Sprintf(integerRetryTemplateConstant, minimum, maximum)); writeError != nil {
			return 0, writeError
		}
	}
}

// List splits the answer on separator, dropping blank items. An empty separator means a comma.
func (prompter *Prompter) List(prompt string, separator string) ([]string, error) {
	if len(separator) == 0 {
		separator = defaultListSeparatorConstant
	}
	answer, answerError := prompter.String(prompt)
	if answerError != nil {
		return nil, answerError
	}
	items := []string{}
	for _, rawItem := range strings.Split(answer, separator) {
		trimmedItem := strings.TrimSpace(rawItem)
		if len(trimmedItem) == 0 {
			continue
		}
		items = append(items, trimmedItem)
	}
	return items, nil
}

// Choice lists options under lettered labels and returns the selected index, or -1 for a blank answer.
func (prompter *Prompter) Choice(prompt string, options []string) (int, error) {
	var menu strings.Builder
	if len(prompt) > 0 {
		menu.WriteString(prompt)
		menu.WriteString("\n")
	}
	menu.WriteString("\n")
	for optionIndex, option := range options {
		menu.WriteString(fmt.Sprintf(choiceLineTemplateConstant, firstChoiceLetterConstant+rune(optionIndex), option))
	}
	menu.WriteString("\n")
	if writeError := prompter.write(menu.String()); writeError != nil {
		return unselectedChoiceIndexConstant, writeError
	}

	for {
		answer, answerError := prompter.readLine()
		if answerError != nil {
			return unselectedChoiceIndexConstant, answerError
		}
		if len(answer) == 0 {
			return unselectedChoiceIndexConstant, nil
		}
		if len(answer) == 1 {
			selectedIndex := int(rune(answer[0]) - firstChoiceLetterConstant)
			if selectedIndex >= 0 && selectedIndex < len(options) {
				return selectedIndex, nil
			}
		}
		if writeError := prompter.write(choiceRetryMessageConstant); writeError != nil {
			return unselectedChoiceIndexConstant, writeError
		}
	}
}

// Proceed asks until the first letter of the answer is one of allowed and returns it lowercased.
// A blank answer is replaced by defaultAnswer when one is given. When errorPrompt is set a
// rejected letter is echoed with it before asking again.
func (prompter *Prompter) Proceed(prompt string, allowed string, errorPrompt string, defaultAnswer string) (rune, error) {
	currentPrompt := prompt
	for {
		answer, answerError := prompter.String(currentPrompt)
		if answerError != nil {
			return 0, answerError
		}
		currentPrompt = prompt
		if len(answer) == 0 {
			answer = defaultAnswer
		}
		if len(answer) == 0 {
			continue
		}
		firstLetter := []rune(strings.ToLower(answer))[0]
		if strings.ContainsRune(allowed, firstLetter) {
			return firstLetter, nil
		}
		if len(errorPrompt) > 0 {
			currentPrompt = fmt.Sprintf(proceedRetryTemplateConstant, firstLetter, errorPrompt) + prompt
		}
	}
}

// Pause waits for a single line of input.
func (prompter *Prompter) Pause() error {
	if writeError := prompter.write(pauseMessageConstant); writeError != nil {
		return writeError
	}
	_, readError := prompter.readLine()
	return readError
}

func (prompter *Prompter) write(text string) error {
	if len(text) == 0 {
		return nil
	}
	_, writeError := io.WriteString(prompter.writer, text)
	return writeError
}

func (prompter *Prompter) readLine() (string, error) {
	line, readError := prompter.reader.ReadString('\n')
	if readError != nil {
		if !errors.Is(readError, io.EOF) {
			return "", readError
		}
		if len(line) == 0 {
			return "", ErrInputClosed
		}
	}
	return strings.TrimRight(line, lineTerminatorCharactersConstant), nil
}
