// Package orders provides the HTTP client and data model for the pawn-shop
// order service.
//
// # Endpoints
//
// All paths are relative to the configured base URL, which by default is the
// service's dashboard mount point (http://127.0.0.1:8000/dashboard):
//
//   - GET    orders             list every active order
//   - POST   verification/{id}  send the verification email for one order
//   - DELETE order/{id}         delete one order and its verification record
//
// # Errors
//
// Every failure is reported as *TransportError. The service answers business
// refusals (unknown order, already verified, email already sent) with 4xx
// status codes and a JSON body of the form {"detail": "..."}; the detail text
// is surfaced in TransportError.Detail so the operator sees the reason.
//
// # Wire format
//
// Record field names follow the service's schema (id_percakapan,
// nama_customer, wilayah, ...). Order maps them onto descriptive Go names.
// Estimated values arrive as numbers or decimal strings depending on the
// service's encoder, so Amount accepts both.
package orders
