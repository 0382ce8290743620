// Package s3 stores objects under a key prefix in one S3-compatible bucket.
//
// It backs the publishing of pass reports. Any S3-compatible service works;
// set an endpoint and path-style addressing for services other than AWS.
package s3
