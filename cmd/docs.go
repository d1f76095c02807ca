package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const docHeader = `---
layout: default
title: %s
nav_order: 0
permalink: /
---
`

// MakeDocs writes Markdown documentation for the commands to dir
func MakeDocs(dir string) error {
	root := newRootCmd()
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTreeCustom(root, dir, filePrepender, linkHandler)
}

// filePrepender adds the YAML heading required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))

	return fmt.Sprintf(docHeader, base)
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))

	if base == RootCmd.Name() {
		return "/"
	}
	return base
}
