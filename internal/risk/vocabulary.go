package risk

// Path vocabularies decide risk outright when they match; the keyword
// vocabularies below only feed the weighted tie-break scores.

// criticalPathTerms marks a file business-critical by path alone.
var criticalPathTerms = []string{
	"auth",
	"payment",
	"security",
	"order",
	"billing",
	"transaction",
	"checkout",
	"invoice",
	"account",
	"credential",
	"password",
	"permission",
}

// nonCriticalPathTerms marks a file non-critical by path alone.
var nonCriticalPathTerms = []string{
	"test",
	"log",
	"doc",
	"util",
	"mock",
	"sample",
	"example",
	"readme",
	"style",
	"format",
}

// criticalKeywords score occurrences in the diff body and path.
var criticalKeywords = []string{
	"payment",
	"auth",
	"login",
	"security",
	"order",
	"transaction",
	"billing",
	"invoice",
	"account",
	"password",
	"token",
	"checkout",
	"credential",
	"permission",
	"encrypt",
}

// nonCriticalKeywords score occurrences in the diff body and path.
// The log forms are deliberately specific: a bare "log" would also
// count every "login".
var nonCriticalKeywords = []string{
	"log.",
	"logger",
	"logging",
	"test",
	"debug",
	"util",
	"format",
	"comment",
	"doc",
	"style",
	"rename",
	"typo",
	"whitespace",
}

// bugFixIndicators flag a diff as a bug fix when any appears in the
// text, case-insensitively.
var bugFixIndicators = []string{
	"fix",
	"bug",
	"issue",
	"patch",
	"hotfix",
	"resolve",
	"correct",
}
