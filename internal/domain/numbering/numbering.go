// Package numbering implementa el formato del correlativo de órdenes: la
// representación decimal del consecutivo con ceros a la izquierda a 6 dígitos
// ("000001", "000002", ...). La parte pura vive aquí; la sección crítica que
// serializa la lectura del máximo vive en el repositorio de órdenes.
package numbering

import (
	"fmt"
	"strconv"

	"github.com/lavamatic/lavanderia-api/internal/domain"
)

// Width ancho mínimo del correlativo. Números mayores a 999999 simplemente
// crecen en dígitos; los correlativos jamás se reciclan ni se compactan.
const Width = 6

// Format devuelve el correlativo con ceros a la izquierda ("000001").
func Format(n int64) string {
	return fmt.Sprintf("%0*d", Width, n)
}

// Parse interpreta un correlativo como entero. Acepta solo dígitos decimales
// y exige un valor positivo.
func Parse(number string) (int64, error) {
	if number == "" {
		return 0, domain.ErrInvalidInput
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return 0, domain.ErrInvalidInput
		}
	}
	n, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	if n <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}

// Next devuelve el correlativo siguiente al máximo actual. Con max = 0
// (sin órdenes) el primer correlativo es "000001".
func Next(max int64) string {
	return Format(max + 1)
}
