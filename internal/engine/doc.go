// Package engine propagates heat through an alloy grid.
//
// Every iteration is a synchronous (Jacobi) update: a fixed pool of workers
// reads only the committed temperature field and writes disjoint slices of a
// separate next-generation buffer. After all tasks of the iteration have
// finished the engine inspects the convergence signal and commits the new
// field by swapping buffers, so no reader ever sees a half-updated grid.
package engine
