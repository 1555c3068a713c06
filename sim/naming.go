package sim

import (
	"strconv"
	"strings"
)

// A Name is a hierarchical element name: dot-separated tokens, each
// optionally carrying square-bracket indices, such as
// "Bench.LockUnit" or "Farm.Lock[3].KeypadPort".
type Name struct {
	Tokens []NameToken
}

// NameToken is one dot-separated token of a Name.
type NameToken struct {
	ElemName string
	Index    []int
}

// ParseName splits a name string into tokens.
func ParseName(sname string) Name {
	tokens := strings.Split(sname, ".")
	name := Name{Tokens: make([]NameToken, len(tokens))}

	for i, token := range tokens {
		name.Tokens[i] = parseNameToken(token)
	}

	return name
}

func parseNameToken(token string) NameToken {
	bracketsMustMatch(token)

	parts := strings.Split(token, "[")
	elemName := parts[0]

	indices := make([]int, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		index, err := strconv.Atoi(parts[i][:len(parts[i])-1])
		if err != nil {
			panic("name index must be an integer")
		}

		indices[i-1] = index
	}

	return NameToken{ElemName: elemName, Index: indices}
}

func bracketsMustMatch(token string) {
	open := 0

	for _, c := range token {
		switch c {
		case '[':
			open++
		case ']':
			open--
			if open < 0 {
				panic("name brackets must match")
			}
		}
	}

	if open != 0 {
		panic("name brackets must match")
	}
}

// NameMustBeValid panics if the name does not follow the naming rules:
// dot-separated hierarchy with no empty element, each element in
// capitalized CamelCase, and series elements indexed with square brackets.
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("name " + name + " is not valid: " + r.(string))
		}
	}()

	n := ParseName(name)
	for _, token := range n.Tokens {
		tokenMustBeValid(token)
	}
}

func tokenMustBeValid(token NameToken) {
	if token.ElemName == "" {
		panic("name element must not be empty")
	}

	for _, c := range []string{"_", "\"", "'", "-"} {
		if strings.Contains(token.ElemName, c) {
			panic("name element must not contain " + c)
		}
	}

	if token.ElemName[0] < 'A' || token.ElemName[0] > 'Z' {
		panic("name element must start with a capital letter")
	}
}

// BuildName joins a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
