package main

import (
	"fmt"
	"io"
)

const licenseText = `
  This is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  This program is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  along with this program.  If not, see <http://www.gnu.org/licenses/>.
`

// printLicense writes the licensing notice. The plugin still exits UNKNOWN.
func printLicense(w io.Writer) {
	fmt.Fprintf(w, "\n  %s %s\n", programName, version)
	fmt.Fprint(w, licenseText)
	fmt.Fprintf(w, "\n  Type %s -h for Help\n\n", programName)
}
