package diagfmt

import (
	"esgate/internal/diag"
	"esgate/internal/style"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	loc := diag.Location{
		File:     "/home/user/project/src/main.js",
		Line:     2,
		Column:   18,
		Length:   7,
		LineText: "import React from 'react';",
	}
	bag.Add(diag.NewInvalidSpecifier(style.NewTable(false), "react", "file:///home/user/project/src/main.js").Diagnostic(loc))
	bag.Add(diag.New(diag.SevWarning, diag.CodeBuild, diag.Location{File: "/home/user/project/src/b.js"}, "Unused import").
		WithNote(diag.Location{File: "/home/user/project/src/c.js", Line: 1}, "declared here"))
	return bag
}
