package reporter

// Stable diagnostic codes. Once assigned to a class of error they
// must not be reused for another class; new classes get new codes instead
// of overloading an existing one.
const (
	// Parse errors (E001-E015): reported with span, recovered via
	// recover_to_newline or recover_to_element, parsing continues.
	CodeUnexpectedTopLevel  = "E001" // unexpected top-level token
	CodeUnexpectedMember    = "E002" // unexpected element/template member
	CodeExpectedExpression  = "E003" // expected expression
	CodeExpectedIdentifier  = "E004" // expected identifier
	CodeExpectedColon       = "E005" // expected ':'
	CodeExpectedBlockStart  = "E006" // expected an indented block after ':'
	CodeExpectedBlockEnd    = "E007" // expected closing ')' or ']' (also: missing ':' before a ref type)
	CodeExpectedType        = "E008" // expected a type annotation
	CodeExpectedNewline     = "E009" // expected NEWLINE after a member
	CodeExpectedEquals      = "E010" // expected '=' in a binding
	CodeRequiresInElement   = "E012" // requires/allows/forbids inside an element
	CodeBadTemplateBinding  = "E013" // malformed template binding path (len < 2)
	CodeUnboundedScope      = "E014" // unbounded scope outside a template
	CodeUnboundedRef        = "E015" // unbounded ref outside a template

	// Semantic (validate) warnings: validation proceeds regardless.
	CodeUnknownLibrary = "W001"

	// Evaluation errors (E200-E205): recorded as a per-check Error result,
	// run continues.
	CodeUndefinedIdentifier  = "E200"
	CodeStrayMemberAccess    = "E201"
	CodeUndefinedReference   = "E202"
	CodeUnknownLibraryAtRun  = "E203"
	CodeCheckNotACall        = "E204"
	CodeMalformedLibraryCall = "E205"
)
