// Package kernel provides reference implementations of the primitive
// capabilities that recipes call.
//
// The implementations favour clarity over speed and are not tuned to
// reproduce any particular processing package sample for sample. They exist so
// that the command line tool and the integration tests can run recipes end to
// end. Migration and line projection need survey geometry that gather
// documents do not carry, so they are not registered here; recipes that need
// them fail through the normal isolation path unless another implementation is
// registered under the same name.
//
// All kernels work trace by trace on Data[trace][sample] and never change the
// array shape.
package kernel
