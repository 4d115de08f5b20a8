// Package modelfile loads a model tree from HCL files.
//
// A model file nests namespaces and objects:
//
//	assembly "Lib" {
//	  object "point" "Origin" {
//	    method = "coordinates"
//	    inputs {
//	      X = 0.0
//	      Y = 0.0
//	      Z = 0.0
//	    }
//	  }
//	}
//
//	scenario "S" {
//	  external = ["Lib.Origin"]
//
//	  assembly "A" {
//	    icon = "frame"
//
//	    object "point" "Tip" {
//	      method = "offset"
//	      inputs {
//	        Base = Origin
//	        DX   = 1.0
//	        DY   = 0.0
//	      }
//	      expressions = {
//	        DZ = "2.0 ^ 3.0"
//	      }
//	    }
//	  }
//	}
//
// Attributes inside an inputs block are taken verbatim from the source as
// expression text, so they must also be valid HCL. The expressions map
// carries text HCL cannot parse, such as the ^ operator.
//
// Loading runs in three passes while propagation is suspended: every
// namespace and object is created, external members are attached, then
// inputs are bound. Nothing is updated.
package modelfile
