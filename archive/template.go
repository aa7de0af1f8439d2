// template.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package archive

import (
	"path"
	"strings"
	"text/template"
)

// templateFiles holds the templates for the generated text files.
// Everything under "parts/" is made available to every template.
var templateFiles = map[string]string{
	"manifest.txt": `job {{.Writer.JobName}}
uuid urn:uuid:{{.Writer.UUID}}
modified {{.Writer.LastModified}}
{{template "summary" .Writer}}
{{range .Writer.Pages}}{{template "page" .}}
{{end}}{{with .Writer.Final}}final {{.}}
{{end}}`,
	"parts/summary.txt": `{{define "summary"}}{{with .Labels}}pages {{formatlist .}}{{else}}no pages{{end}}{{end}}`,
	"parts/page.txt":    `{{define "page"}}[{{.Label}}] {{.Path}} {{.Width}}x{{.Height}}+{{.Depth}}{{end}}`,
}

func templateFormatList(list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	}

	var parts []string
	for i, part := range list {
		parts = append(parts, part)
		if i < len(list)-2 {
			parts = append(parts, ", ")
		} else if i < len(list)-1 {
			parts = append(parts, " and ")
		}
	}
	return strings.Join(parts, "")
}

var templateFunctions = template.FuncMap{
	"formatlist": templateFormatList,
}

func loadTemplates(names []string) (*template.Template, error) {
	var res *template.Template

	for key := range templateFiles {
		if strings.HasPrefix(key, "parts/") {
			names = append(names, key)
		}
	}

	for _, name := range names {
		var tmpl *template.Template
		baseName := path.Base(name)
		if res == nil {
			tmpl = template.New(baseName).Funcs(templateFunctions)
			res = tmpl
		} else {
			tmpl = res.New(baseName)
		}
		_, err := tmpl.Parse(templateFiles[name])
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (w *Writer) addFileFromTemplate(path string, tmplFiles []string,
	data interface{}) error {
	tmpl, err := loadTemplates(tmplFiles)
	if err != nil {
		return err
	}
	out, err := w.driver.Create(path)
	if err != nil {
		return err
	}
	err = tmpl.Execute(out, map[string]interface{}{
		"This":   data,
		"Writer": w,
	})
	if err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
