package dump

import (
	"io"
	"text/template"
	"time"

	"db-dump/internal/version"
)

const headerTmpl = `-- {{ .Tool }} {{ .Version }}
--
-- Host: {{ .Host }}    Database: {{ .Schema }}
-- ------------------------------------------------------
-- Server version	{{ .ServerVersion }}

/*!40101 SET @OLD_CHARACTER_SET_CLIENT=@@CHARACTER_SET_CLIENT */;
/*!40101 SET @OLD_CHARACTER_SET_RESULTS=@@CHARACTER_SET_RESULTS */;
/*!40101 SET @OLD_COLLATION_CONNECTION=@@COLLATION_CONNECTION */;
/*!40101 SET NAMES utf8 */;
/*!40103 SET @OLD_TIME_ZONE=@@TIME_ZONE */;
/*!40103 SET TIME_ZONE='+00:00' */;
/*!40014 SET @OLD_UNIQUE_CHECKS=@@UNIQUE_CHECKS, UNIQUE_CHECKS=0 */;
/*!40014 SET @OLD_FOREIGN_KEY_CHECKS=@@FOREIGN_KEY_CHECKS, FOREIGN_KEY_CHECKS=0 */;
/*!40101 SET @OLD_SQL_MODE=@@SQL_MODE, SQL_MODE='NO_AUTO_VALUE_ON_ZERO' */;
/*!40111 SET @OLD_SQL_NOTES=@@SQL_NOTES, SQL_NOTES=0 */;
`

const footerTmpl = `
/*!40103 SET TIME_ZONE=@OLD_TIME_ZONE */;
/*!40101 SET SQL_MODE=@OLD_SQL_MODE */;
/*!40014 SET FOREIGN_KEY_CHECKS=@OLD_FOREIGN_KEY_CHECKS */;
/*!40014 SET UNIQUE_CHECKS=@OLD_UNIQUE_CHECKS */;
/*!40101 SET CHARACTER_SET_CLIENT=@OLD_CHARACTER_SET_CLIENT */;
/*!40101 SET CHARACTER_SET_RESULTS=@OLD_CHARACTER_SET_RESULTS */;
/*!40101 SET COLLATION_CONNECTION=@OLD_COLLATION_CONNECTION */;
/*!40111 SET SQL_NOTES=@OLD_SQL_NOTES */;

-- Dump completed on {{ .Completed }}
`

// CompletedLayout formats the footer timestamp.
const CompletedLayout = "2006-01-02 15:04:05"

var (
	header = template.Must(template.New("header").Parse(headerTmpl))
	footer = template.Must(template.New("footer").Parse(footerTmpl))
)

type headerData struct {
	Tool          string
	Version       string
	Host          string
	Schema        string
	ServerVersion string
}

// WriteHeader writes the banner and the session-variable save block.
func WriteHeader(w io.Writer, host, schemaName, serverVersion string) error {
	return header.Execute(w, headerData{
		Tool:          version.Name,
		Version:       version.Version,
		Host:          host,
		Schema:        schemaName,
		ServerVersion: serverVersion,
	})
}

// WriteFooter writes the session-variable restore block and the completion stamp.
func WriteFooter(w io.Writer, completed time.Time) error {
	return footer.Execute(w, struct{ Completed string }{completed.Format(CompletedLayout)})
}
