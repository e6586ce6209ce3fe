package token

// Binding powers for the Pratt parser, lowest to highest:
//
//	=            (2, 1)   right-associative
//	and or       (3, 4)
//	== != < <= > >=  (5, 6)
//	+ -          (7, 8)
//	* /          (9, 10)
//	prefix - !   11
//	call index   13
//	.            (15, 16)
//
// print as a prefix operator binds at 1 so it takes the whole expression to its right.
const (
	PrintPower = 1
	UnaryPower = 11
	CallPower  = 13
)

// PrefixPower returns the right binding power of k in prefix position.
func (k Kind) PrefixPower() (int, bool) {
	//exhaustive:ignore
	switch k {
	case MINUS, BANG:
		return UnaryPower, true
	case PRINT:
		return PrintPower, true
	}
	return 0, false
}

// InfixPower returns the left and right binding powers of k in infix position.
func (k Kind) InfixPower() (left, right int, ok bool) {
	//exhaustive:ignore
	switch k {
	case EQUAL:
		return 2, 1, true
	case AND, OR:
		return 3, 4, true
	case EQUALEQUAL, BANGEQUAL, LESS, LESSEQUAL, GREATER, GREATEREQUAL:
		return 5, 6, true
	case PLUS, MINUS:
		return 7, 8, true
	case STAR, SLASH:
		return 9, 10, true
	case DOT:
		return 15, 16, true
	}
	return 0, 0, false
}

// PostfixPower returns the left binding power of k in postfix position.
func (k Kind) PostfixPower() (int, bool) {
	//exhaustive:ignore
	switch k {
	case LEFTPAREN, LEFTBRACKET:
		return CallPower, true
	}
	return 0, false
}

// Terminates reports whether k ends an expression.
func (k Kind) Terminates() bool {
	//exhaustive:ignore
	switch k {
	case EOF, RIGHTPAREN, RIGHTBRACE, RIGHTBRACKET, COMMA, SEMICOLON:
		return true
	}
	return false
}
