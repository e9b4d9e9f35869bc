// Package codec implements the binary layout of XH waveform files.
//
// An XH file is a concatenation of records. Each record is a fixed
// 1024-byte header followed by NData 4-byte float samples. There is no file
// header, footer, index or checksum.
//
// # Header Layout
//
// All numeric fields are 4 bytes wide and share the file's byte order:
//
//	[version f32][nhdr i32][i12345678 i32]
//	[elat elon edep Mb Ms Mw slat slon elev azim incl f32 x11]
//	[ot: year month day hour minute i32 x5, second f32]
//	[tstart: year month day hour minute i32 x5, second f32]
//	[ndata i32][delta tshift maxamp f32 x3][qual chid locc i32 x3]
//	[pole complex64 x30][zero complex64 x30]
//	[DS A0 f12345678 f32 x3]
//	[tpcks f32 x20][flt f32 x20][intg i32 x20]
//	[cmtcd 14][evtcd 8][netw 8][stnm 8][chan 8][rcomment 72][wavf 8]
//	[padding 34]
//
// # Byte Order
//
// Files carry no byte-order flag. Instead every header stores the integer
// 12345678 at offset 8 and the float 12345678.0 at offset 620. Sniff decides
// the byte order from the integer marker and then reads the version float,
// which must render as "0.98".
//
// # Text Fields
//
// Text fields are NUL-terminated within their fixed width. The literal text
// "null" marks an absent value and decodes to an invalid NullString. Any other
// content, including an empty string, is present.
//
// # Errors
//
// Failures are reported as *Error values carrying a Kind and, where known, the
// byte offset of the failure. Compare with errors.Is against the Err*
// sentinels.
package codec
