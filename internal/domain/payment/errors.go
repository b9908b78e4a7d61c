package payment

import "errors"

// ErrUnsupportedDocumentType el tipo de documento no es uno de los seis soportados;
// no se puede deducir el rol del partner ni la dirección del pago.
var ErrUnsupportedDocumentType = errors.New("payment: tipo de documento no soportado")

// ErrConverterRequired el lote necesita conversión de moneda y no hay Converter configurado.
var ErrConverterRequired = errors.New("payment: se requiere conversión de moneda y no hay conversor")
