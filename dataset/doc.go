// Package dataset generates and persists the synthetic coordinate sets used
// by benchmark runs. A dataset is keyed by role (index or query) and size;
// the first request generates and writes it, every later request loads the
// same file, so repeated runs on one machine see identical points in
// identical order.
package dataset
