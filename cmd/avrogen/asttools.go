package main

import (
	"go/ast"
	"go/token"

	"github.com/pkg/errors"
)

func (b *builder) astFindFile(pos token.Pos) (*ast.File, error) {
	if b.fset == nil || !pos.IsValid() {
		return nil, errors.New("no position info")
	}
	selFile := b.fset.File(pos)
	if selFile == nil {
		return nil, errors.Errorf("position %v is outside of the fileset", pos)
	}

	for _, pkg := range b.pkgs {
		for _, sf := range pkg.Syntax {
			if b.fset.File(sf.Pos()) == selFile {
				return sf, nil
			}
		}
	}
	return nil, errors.Errorf("file '%v' not found in fset", selFile.Name())
}
